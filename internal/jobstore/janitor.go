package jobstore

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultJanitorSchedule runs a purge every ten minutes.
const DefaultJanitorSchedule = "@every 10m"

// Janitor periodically purges expired job keys.
type Janitor struct {
	cron   *cron.Cron
	purger Purger
	logger *zap.Logger
}

// NewJanitor schedules purger.Purge on schedule (a cron expression or "@every" descriptor).
func NewJanitor(purger Purger, schedule string, logger *zap.Logger) (*Janitor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultJanitorSchedule
	}

	j := &Janitor{
		cron:   cron.New(),
		purger: purger,
		logger: logger,
	}
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins the schedule in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce purges expired keys immediately.
func (j *Janitor) RunOnce() {
	removed, err := j.purger.Purge(context.Background())
	if err != nil {
		j.logger.Error("job state purge failed", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("purged expired job state", zap.Int("removed", removed))
	}
}
