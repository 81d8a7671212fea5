package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile-extractor/internal/types"
)

// Attempt outcomes reported to the attempt hook.
const (
	OutcomeSuccess   = "success"
	OutcomeRetryable = "retryable"
	OutcomeFatal     = "fatal"
	OutcomeEmpty     = "empty"
)

// Gateway sends completion requests with retries and converts every failure
// into ErrNoEnhancement.
type Gateway struct {
	client    Client
	backoff   Backoff
	timeout   time.Duration
	logger    *zap.Logger
	onAttempt func(outcome string)
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRequestTimeout bounds each attempt.
func WithRequestTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// WithAttemptHook registers fn to be called with the outcome of every attempt.
func WithAttemptHook(fn func(outcome string)) GatewayOption {
	return func(g *Gateway) { g.onAttempt = fn }
}

// NewGateway creates a Gateway around client.
func NewGateway(client Client, backoff Backoff, opts ...GatewayOption) *Gateway {
	g := &Gateway{client: client, backoff: backoff, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete returns the completion for req. On fatal errors, exhausted retries
// or a blank completion the error wraps ErrNoEnhancement and the last cause.
// Backoff waits happen on the calling goroutine.
func (g *Gateway) Complete(ctx context.Context, req Request, contract types.Contract) (*types.AIResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= g.backoff.MaxRetries; attempt++ {
		text, err := g.attempt(ctx, req)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				g.report(OutcomeEmpty)
				return nil, fmt.Errorf("%w: %w", ErrNoEnhancement, ErrEmptyResponse)
			}
			g.report(OutcomeSuccess)
			return &types.AIResponse{RawText: text, Contract: contract}, nil
		}

		lastErr = err
		if errors.Is(err, ErrEmptyResponse) {
			g.report(OutcomeEmpty)
			return nil, fmt.Errorf("%w: %w", ErrNoEnhancement, err)
		}
		if !IsRetryable(err) {
			g.report(OutcomeFatal)
			g.logger.Warn("generation failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrNoEnhancement, err)
		}
		g.report(OutcomeRetryable)

		if attempt == g.backoff.MaxRetries {
			break
		}
		delay := g.backoff.Delay(attempt)
		g.logger.Info("retrying generation",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if werr := g.backoff.wait(ctx, attempt); werr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoEnhancement, werr)
		}
	}

	g.logger.Warn("generation retries exhausted",
		zap.Int("attempts", g.backoff.MaxRetries+1),
		zap.Error(lastErr),
	)
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrNoEnhancement, g.backoff.MaxRetries+1, lastErr)
}

func (g *Gateway) attempt(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	text, err := g.client.Generate(ctx, req)
	if err != nil {
		return "", Classify("", err)
	}
	return text, nil
}

func (g *Gateway) report(outcome string) {
	if g.onAttempt != nil {
		g.onAttempt(outcome)
	}
}
