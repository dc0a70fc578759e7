package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"portfolio/internal/config"
	"portfolio/internal/tasks"
)

// Enqueuer is the part of queue.Producer the scheduler needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, values map[string]any) (string, error)
}

// Scheduler enqueues maintenance tasks on cron schedules (with seconds).
type Scheduler struct {
	cron  *cron.Cron
	queue Enqueuer
	cfg   config.JobsConfig
	log   zerolog.Logger
}

func NewScheduler(queue Enqueuer, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil || !s.cfg.Enabled {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.ResumeGCSchedule, s.enqueue(tasks.TypeResumeGC)); err != nil {
		return fmt.Errorf("schedule %s: %w", tasks.TypeResumeGC, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.CacheWarmSchedule, s.enqueue(tasks.TypeCacheWarm)); err != nil {
		return fmt.Errorf("schedule %s: %w", tasks.TypeCacheWarm, err)
	}

	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
	return nil
}

// Stop waits up to five seconds for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueue(taskType string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := s.queue.Enqueue(ctx, taskType, nil); err != nil {
			s.log.Error().Err(err).Str("type", taskType).Msg("enqueue task failed")
		}
	}
}
