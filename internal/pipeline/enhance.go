package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/profile-extractor/internal/llm"
	"github.com/jonathan/profile-extractor/internal/parsing"
	"github.com/jonathan/profile-extractor/internal/prompts"
	"github.com/jonathan/profile-extractor/internal/types"
)

// Completer is the AI gateway as seen by the pipeline.
type Completer interface {
	Complete(ctx context.Context, req llm.Request, contract types.Contract) (*types.AIResponse, error)
}

// Enhancer runs the optional AI stages: prompt building, the gateway call
// and response parsing.
type Enhancer struct {
	builder  *prompts.Builder
	gateway  Completer
	contract types.Contract
	now      func() time.Time
}

// NewEnhancer creates an Enhancer requesting completions under contract.
// An empty contract uses the marker contract.
func NewEnhancer(gateway Completer, contract types.Contract) *Enhancer {
	if contract == "" {
		contract = types.ContractMarker
	}
	return &Enhancer{
		builder:  prompts.NewBuilder(),
		gateway:  gateway,
		contract: contract,
		now:      time.Now,
	}
}

// Contract returns the response contract the enhancer requests.
func (e *Enhancer) Contract() types.Contract {
	return e.contract
}

// Enhance returns the validated AI record for baseline h. Any error means no
// enhancement is available and the caller continues with h alone.
func (e *Enhancer) Enhance(ctx context.Context, h *types.HeuristicRecord, src *types.RawSource) (*types.AIRecord, error) {
	prompt, err := e.builder.Build(h, src, e.contract)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrNoEnhancement, err)
	}

	resp, err := e.gateway.Complete(ctx, prompt.Request(), prompt.Contract)
	if err != nil {
		return nil, err
	}

	rec, err := parsing.Parse(resp, h.Domain, e.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrNoEnhancement, err)
	}
	return rec, nil
}
