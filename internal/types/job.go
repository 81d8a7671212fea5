// Package types provides the per-stage data structures passed through the extraction pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// JobStatus is the lifecycle state of an extraction job.
type JobStatus string

const (
	// StatusPending is the state right after submission.
	StatusPending JobStatus = "pending"
	// StatusProcessing means a worker picked the job up.
	StatusProcessing JobStatus = "processing"
	// StatusCompleted is terminal; the job carries a profile.
	StatusCompleted JobStatus = "completed"
	// StatusFailed is terminal; the job carries an error message.
	StatusFailed JobStatus = "failed"
	// StatusUnknown is reported for ids that never existed or whose state expired.
	StatusUnknown JobStatus = "unknown"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next keeps the lifecycle monotonic.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Job is the polling view of an extraction job.
type Job struct {
	ID        string             `json:"id"`
	Status    JobStatus          `json:"status"`
	CreatedAt time.Time          `json:"created_at,omitempty"`
	ExpiresAt time.Time          `json:"expires_at,omitempty"`
	Profile   *NormalizedProfile `json:"profile"`
	Error     string             `json:"error"`
}
