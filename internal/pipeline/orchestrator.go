// Package pipeline orchestrates extraction jobs: acquisition, heuristic
// extraction, optional AI enhancement, merging and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-extractor/internal/heuristics"
	"github.com/jonathan/profile-extractor/internal/jobstore"
	"github.com/jonathan/profile-extractor/internal/merging"
	"github.com/jonathan/profile-extractor/internal/observability"
	"github.com/jonathan/profile-extractor/internal/types"
)

// Stage names reported to metrics and progress callbacks.
const (
	StageAcquire    = "acquire"
	StageHeuristics = "heuristics"
	StageEnhance    = "enhance"
	StageMerge      = "merge"
	StagePersist    = "persist"
)

// Defaults for Options.
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 64
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrNotRunning is returned by Submit before Start or after Stop.
	ErrNotRunning = errors.New("orchestrator is not running")
	// ErrInvalidSubmission wraps submission validation failures.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// WebSource acquires a web page. It may return a fallback source together
// with an error; the pipeline continues with the fallback.
type WebSource interface {
	Acquire(ctx context.Context, rawURL string) (*types.RawSource, error)
}

// DocumentSource acquires an uploaded document.
type DocumentSource interface {
	Acquire(ctx context.Context, data []byte, filename string) (*types.RawSource, error)
}

// Persister stores a completed profile.
type Persister interface {
	Save(ctx context.Context, jobID string, profile *types.NormalizedProfile) error
}

// ProgressEvent represents a progress update during a job
type ProgressEvent struct {
	JobID   string `json:"job_id,omitempty"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProgressCallback is called when a stage finishes
type ProgressCallback func(event ProgressEvent)

// Options configures an Orchestrator. Enhancer and Persister are optional.
type Options struct {
	Workers    int
	QueueSize  int
	Enhancer   *Enhancer
	Persister  Persister
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Result is the outcome of one synchronous run.
type Result struct {
	JobID      string
	Profile    *types.NormalizedProfile
	Source     *types.RawSource
	Rejections []string
	// EnhanceError is why AI output is missing, when it is.
	EnhanceError error
}

type task struct {
	id  string
	req types.SubmitRequest
}

// Orchestrator runs submitted jobs on a fixed pool of workers. Each job is
// owned by one worker, which is the only writer of its state.
type Orchestrator struct {
	tracker *jobstore.Tracker
	web     WebSource
	docs    DocumentSource
	opts    Options
	logger  *zap.Logger
	newID   func() string

	mu      sync.Mutex
	queue   chan task
	group   *errgroup.Group
	running bool
}

// New creates an orchestrator. Call Start before Submit.
func New(tracker *jobstore.Tracker, web WebSource, docs DocumentSource, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		tracker: tracker,
		web:     web,
		docs:    docs,
		opts:    opts,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Start launches the workers. Jobs keep running when ctx is cancelled; only
// Stop ends the workers, after the queue drains.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return
	}

	queue := make(chan task, o.opts.QueueSize)
	jobCtx := context.WithoutCancel(ctx)
	g := new(errgroup.Group)
	for i := 0; i < o.opts.Workers; i++ {
		g.Go(func() error {
			for t := range queue {
				o.process(jobCtx, t)
			}
			return nil
		})
	}

	o.queue, o.group, o.running = queue, g, true
	o.logger.Info("orchestrator started",
		zap.Int("workers", o.opts.Workers),
		zap.Int("queue_size", o.opts.QueueSize),
		zap.Bool("ai_enabled", o.opts.Enhancer != nil))
}

// Stop closes the queue and waits for queued and running jobs to finish.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	close(o.queue)
	o.running = false
	g := o.group
	o.mu.Unlock()

	err := g.Wait()
	o.logger.Info("orchestrator stopped")
	return err
}

// Submit registers a pending job for req and queues it. It never waits for
// pipeline work. When no queue slot is free no job is created and
// ErrQueueFull is returned.
func (o *Orchestrator) Submit(ctx context.Context, req *types.SubmitRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return "", ErrNotRunning
	}

	// Only Submit sends, under o.mu, so a free slot stays free until the send.
	if len(o.queue) == cap(o.queue) {
		o.opts.Metrics.JobRejected(string(req.Domain))
		return "", ErrQueueFull
	}

	id := o.newID()
	if err := o.tracker.Create(ctx, id); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}
	o.opts.Metrics.JobSubmitted(string(req.Domain))

	o.queue <- task{id: id, req: *req}
	o.logger.Debug("job queued", zap.String("job_id", id), zap.String("domain", string(req.Domain)))
	return id, nil
}

// Status returns the polling view of job id.
func (o *Orchestrator) Status(ctx context.Context, id string) (*types.Job, error) {
	return o.tracker.Get(ctx, id)
}

// Run executes req synchronously under a fresh id without job state. Only
// acquisition, validation and persistence failures are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, req *types.SubmitRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}
	id := o.newID()
	return o.execute(ctx, id, req, o.logger.With(zap.String("job_id", id)))
}

func (o *Orchestrator) process(ctx context.Context, t task) {
	domain := string(t.req.Domain)
	logger := o.logger.With(zap.String("job_id", t.id), zap.String("domain", domain))
	o.opts.Metrics.WorkerBusy(1)
	defer o.opts.Metrics.WorkerBusy(-1)

	if err := o.tracker.SetStatus(ctx, t.id, types.StatusProcessing); err != nil {
		logger.Error("failed to mark job processing", zap.Error(err))
		return
	}

	res, err := o.execute(ctx, t.id, &t.req, logger)
	if err == nil {
		err = o.tracker.SetResult(ctx, t.id, res.Profile)
	}
	if err != nil {
		logger.Warn("job failed", zap.Error(err))
		if setErr := o.tracker.SetError(ctx, t.id, err.Error()); setErr != nil {
			logger.Error("failed to record job failure", zap.Error(setErr))
		}
		o.opts.Metrics.JobFinished(domain, string(types.StatusFailed), false)
		return
	}

	logger.Info("job completed", zap.Bool("enhanced", res.Profile.Enhanced))
	o.opts.Metrics.JobFinished(domain, string(types.StatusCompleted), res.Profile.Enhanced)
}

// execute runs the stages in order. Enhancement failures degrade to the
// heuristic baseline and are reported in Result.EnhanceError.
func (o *Orchestrator) execute(ctx context.Context, jobID string, req *types.SubmitRequest, logger *zap.Logger) (*Result, error) {
	res := &Result{JobID: jobID}

	err := o.stage(jobID, StageAcquire, func() (string, error) {
		src, err := o.acquire(ctx, req, logger)
		if err != nil {
			return "", err
		}
		res.Source = src
		if src.Fallback {
			return "using fallback page for " + src.URL, nil
		}
		return fmt.Sprintf("acquired %d characters", len(src.Text)), nil
	})
	if err != nil {
		return nil, err
	}

	var baseline *types.HeuristicRecord
	_ = o.stage(jobID, StageHeuristics, func() (string, error) {
		baseline = heuristics.Extract(res.Source, req.Domain)
		return "built heuristic baseline", nil
	})

	var enhanced *types.AIRecord
	if o.opts.Enhancer != nil {
		_ = o.stage(jobID, StageEnhance, func() (string, error) {
			rec, err := o.opts.Enhancer.Enhance(ctx, baseline, res.Source)
			if err != nil {
				res.EnhanceError = err
				logger.Info("continuing with heuristic baseline", zap.Error(err))
				return "no enhancement available", nil
			}
			enhanced = rec
			res.Rejections = rec.Rejections
			o.opts.Metrics.Rejections(string(req.Domain), len(rec.Rejections))
			if len(rec.Rejections) > 0 {
				logger.Debug("dropped AI values", zap.Strings("rejections", rec.Rejections))
			}
			return fmt.Sprintf("AI output validated, %d values dropped", len(rec.Rejections)), nil
		})
	}

	err = o.stage(jobID, StageMerge, func() (string, error) {
		profile, err := merging.Merge(baseline, enhanced)
		if err != nil {
			return "", err
		}
		if err := profile.Validate(); err != nil {
			return "", fmt.Errorf("normalized profile is invalid: %w", err)
		}
		res.Profile = profile
		return "merged profile", nil
	})
	if err != nil {
		return nil, err
	}

	if o.opts.Persister != nil {
		err = o.stage(jobID, StagePersist, func() (string, error) {
			if err := o.opts.Persister.Save(ctx, jobID, res.Profile); err != nil {
				return "", fmt.Errorf("failed to persist profile: %w", err)
			}
			return "stored profile", nil
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (o *Orchestrator) acquire(ctx context.Context, req *types.SubmitRequest, logger *zap.Logger) (*types.RawSource, error) {
	if req.Source() == types.SourceDocument {
		if o.docs == nil {
			return nil, errors.New("document acquisition is not configured")
		}
		return o.docs.Acquire(ctx, req.Document, req.Filename)
	}

	if o.web == nil {
		return nil, errors.New("web acquisition is not configured")
	}
	src, err := o.web.Acquire(ctx, req.URL)
	if err != nil {
		if src == nil {
			return nil, err
		}
		logger.Warn("web acquisition degraded", zap.Error(err))
	}
	return src, nil
}

// stage times fn and reports its message to the progress callback.
func (o *Orchestrator) stage(jobID, name string, fn func() (string, error)) error {
	start := time.Now()
	msg, err := fn()
	o.opts.Metrics.ObserveStage(name, time.Since(start))
	if err != nil {
		msg = err.Error()
	}
	if o.opts.OnProgress != nil {
		o.opts.OnProgress(ProgressEvent{JobID: jobID, Stage: name, Message: msg})
	}
	return err
}
