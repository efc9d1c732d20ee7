// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mrlokans/annotator/internal/logging"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// EnqueueFunc adds one sweep job to the task queue.
type EnqueueFunc func() error

// EnrichmentScheduler periodically enqueues a sweep over annotations whose
// dictionary lookup is still pending or failed.
type EnrichmentScheduler struct {
	schedule string
	enqueue  EnqueueFunc
	log      zerolog.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewEnrichmentScheduler(schedule string, enqueue EnqueueFunc) *EnrichmentScheduler {
	return &EnrichmentScheduler{
		schedule: schedule,
		enqueue:  enqueue,
		log:      logging.Component("scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the sweep. An empty schedule leaves the scheduler disabled.
// The scheduler stops when ctx is cancelled.
func (s *EnrichmentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		s.log.Info().Msg("enrichment sweep disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule enrichment sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info().Str("schedule", s.schedule).Time("next_run", s.cron.Entry(entryID).Next).Msg("enrichment sweep scheduled")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep enqueue to return and stops the scheduler.
func (s *EnrichmentScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.log.Info().Msg("enrichment sweep stopped")
}

// RunNow enqueues a sweep immediately.
func (s *EnrichmentScheduler) RunNow() error {
	return s.enqueue()
}

func (s *EnrichmentScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will be enqueued, or nil when stopped.
func (s *EnrichmentScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *EnrichmentScheduler) run() {
	if err := s.enqueue(); err != nil {
		s.log.Error().Err(err).Msg("failed to enqueue enrichment sweep")
		return
	}
	s.log.Debug().Msg("enrichment sweep enqueued")
}
