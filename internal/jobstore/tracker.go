package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/profile-extractor/internal/types"
)

// DefaultTTL is how long job state stays readable after its last write.
const DefaultTTL = time.Hour

// ErrInvalidTransition is returned when a status write would move a job backwards
// or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid job status transition")

const (
	suffixStatus  = "_status"
	suffixResult  = "_result"
	suffixError   = "_error"
	suffixCreated = "_created"
)

type statusRecord struct {
	Status    types.JobStatus `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Tracker records the lifecycle of extraction jobs under id-namespaced keys.
// Each job is written by a single worker, so no locking is done here.
type Tracker struct {
	kv  KV
	ttl time.Duration
	now Clock
}

// NewTracker creates a tracker. A non-positive ttl uses DefaultTTL.
func NewTracker(kv KV, ttl time.Duration, clock Clock) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{kv: kv, ttl: ttl, now: clock}
}

// TTL returns the expiry applied to every write.
func (t *Tracker) TTL() time.Duration {
	return t.ttl
}

// Create registers a new job in the pending state.
func (t *Tracker) Create(ctx context.Context, id string) error {
	created, err := t.now().UTC().MarshalText()
	if err != nil {
		return err
	}
	if err := t.kv.Set(ctx, id+suffixCreated, created, t.ttl); err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}
	return t.writeStatus(ctx, id, types.StatusPending)
}

// SetStatus moves a job to status. Non-monotonic moves return ErrInvalidTransition.
func (t *Tracker) SetStatus(ctx context.Context, id string, status types.JobStatus) error {
	current, err := t.status(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}
	return t.writeStatus(ctx, id, status)
}

// SetResult stores the profile and completes the job. The profile is written
// before the status so a completed job is never observed without one.
func (t *Tracker) SetResult(ctx context.Context, id string, profile *types.NormalizedProfile) error {
	if profile == nil {
		return errors.New("profile is required")
	}
	current, err := t.status(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransition(types.StatusCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, types.StatusCompleted)
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := t.kv.Set(ctx, id+suffixResult, data, t.ttl); err != nil {
		return fmt.Errorf("failed to store result for job %s: %w", id, err)
	}
	return t.writeStatus(ctx, id, types.StatusCompleted)
}

// SetError stores a human-readable message and fails the job.
func (t *Tracker) SetError(ctx context.Context, id string, message string) error {
	current, err := t.status(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransition(types.StatusFailed) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, types.StatusFailed)
	}
	if err := t.kv.Set(ctx, id+suffixError, []byte(message), t.ttl); err != nil {
		return fmt.Errorf("failed to store error for job %s: %w", id, err)
	}
	return t.writeStatus(ctx, id, types.StatusFailed)
}

// Get returns the polling view of a job. Jobs that never existed or whose state
// expired are reported with StatusUnknown and no error.
func (t *Tracker) Get(ctx context.Context, id string) (*types.Job, error) {
	rec, err := t.status(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &types.Job{ID: id, Status: types.StatusUnknown}, nil
	}
	if err != nil {
		return nil, err
	}

	job := &types.Job{
		ID:        id,
		Status:    rec.Status,
		ExpiresAt: rec.UpdatedAt.Add(t.ttl),
	}
	if raw, err := t.kv.Get(ctx, id+suffixCreated); err == nil {
		_ = job.CreatedAt.UnmarshalText(raw)
	}

	switch rec.Status {
	case types.StatusCompleted:
		raw, err := t.kv.Get(ctx, id+suffixResult)
		if errors.Is(err, ErrNotFound) {
			return &types.Job{ID: id, Status: types.StatusUnknown}, nil
		}
		if err != nil {
			return nil, err
		}
		var profile types.NormalizedProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("failed to decode result for job %s: %w", id, err)
		}
		job.Profile = &profile
	case types.StatusFailed:
		raw, err := t.kv.Get(ctx, id+suffixError)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		job.Error = string(raw)
	}
	return job, nil
}

func (t *Tracker) status(ctx context.Context, id string) (statusRecord, error) {
	var rec statusRecord
	raw, err := t.kv.Get(ctx, id+suffixStatus)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode status for job %s: %w", id, err)
	}
	return rec, nil
}

func (t *Tracker) writeStatus(ctx context.Context, id string, status types.JobStatus) error {
	data, err := json.Marshal(statusRecord{Status: status, UpdatedAt: t.now().UTC()})
	if err != nil {
		return err
	}
	if err := t.kv.Set(ctx, id+suffixStatus, data, t.ttl); err != nil {
		return fmt.Errorf("failed to set status for job %s: %w", id, err)
	}
	return nil
}
