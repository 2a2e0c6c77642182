// Package scheduler runs periodic maintenance jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tdesk-io/tdesk/internal/shared/biztime"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) { return f(ctx) }

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	mu      sync.Mutex
	running bool
}

// NewSchedulerManager builds a scheduler whose cron expressions use the
// business timezone. Nothing runs until Start.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(biztime.Location()))
	if err != nil {
		return nil, err
	}
	return &SchedulerManager{scheduler: s, logger: log}, nil
}

// RegisterResetCleanup purges used and expired password reset grants every
// interval, starting immediately.
func (m *SchedulerManager) RegisterResetCleanup(job BatchJob, interval time.Duration) error {
	return m.registerBatch("password-reset-cleanup", job, interval, "auth", "cleanup")
}

func (m *SchedulerManager) registerBatch(name string, job BatchJob, interval time.Duration, tags ...string) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.runBatch(ctx, name, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("scheduled job registered", "job", name, "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	n, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed", "job", name, "error", err)
		return
	}
	if n > 0 {
		m.logger.Infow("scheduled job completed", "job", name, "processed", n)
	}
}

// Start is idempotent.
func (m *SchedulerManager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.scheduler.Start()
	m.running = true
	m.logger.Infow("scheduler running", "jobs", len(m.scheduler.Jobs()))
}

// Stop blocks until in-flight jobs return. Stopping a scheduler that never
// started is a no-op.
func (m *SchedulerManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	m.running = false
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("scheduler shutdown failed", "error", err)
		return err
	}
	m.logger.Infow("scheduler stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Jobs lists the registered jobs.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
