// -----------------------------------------------------------------------
// Scheduler service - cron-driven job execution with panic recovery
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/interfaces"
)

// jobEntry tracks one registered job.
type jobEntry struct {
	name      string
	schedule  string
	fn        interfaces.JobFunc
	entryID   cron.EntryID
	enabled   bool
	running   bool
	lastRun   *time.Time
	lastError string
	runCount  int
}

// Service implements interfaces.SchedulerService on robfig/cron.
type Service struct {
	cron    *cron.Cron
	jobs    map[string]*jobEntry
	logger  arbor.ILogger
	mu      sync.Mutex
	started bool
}

// NewService creates a scheduler service. Schedules use the standard
// 5-field cron format.
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		cron:   cron.New(),
		jobs:   make(map[string]*jobEntry),
		logger: logger,
	}
}

// RegisterJob registers a named job with a cron schedule. Jobs are
// enabled on registration.
func (s *Service) RegisterJob(name, schedule string, fn interfaces.JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return fmt.Errorf("job name cannot be empty")
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	entry := &jobEntry{
		name:     name,
		schedule: schedule,
		fn:       fn,
		enabled:  true,
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runJob(name)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	entry.entryID = entryID
	s.jobs[name] = entry

	s.logger.Info().Str("job", name).Str("schedule", schedule).Msg("Registered scheduled job")
	return nil
}

// runJob executes a job with panic recovery and status bookkeeping.
func (s *Service) runJob(name string) {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	if !ok || !entry.enabled || entry.running {
		s.mu.Unlock()
		return
	}
	entry.running = true
	fn := entry.fn
	s.mu.Unlock()

	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("job", name).Str("panic", fmt.Sprintf("%v", r)).Msg("Scheduled job panicked")
			s.finishJob(name, started, fmt.Errorf("panic: %v", r))
		}
	}()

	s.logger.Info().Str("job", name).Msg("Running scheduled job")
	err := fn(context.Background())
	s.finishJob(name, started, err)
}

// finishJob records the outcome of a run.
func (s *Service) finishJob(name string, started time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return
	}

	entry.running = false
	entry.lastRun = &started
	entry.runCount++
	if err != nil {
		entry.lastError = err.Error()
		s.logger.Error().Err(err).Str("job", name).Dur("duration", time.Since(started)).Msg("Scheduled job failed")
	} else {
		entry.lastError = ""
		s.logger.Info().Str("job", name).Dur("duration", time.Since(started)).Msg("Scheduled job completed")
	}
}

// EnableJob resumes scheduling for a job.
func (s *Service) EnableJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	entry.enabled = true
	return nil
}

// DisableJob stops scheduling a job without unregistering it.
func (s *Service) DisableJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	entry.enabled = false
	return nil
}

// TriggerJob runs a job immediately, outside its schedule.
func (s *Service) TriggerJob(ctx context.Context, name string) error {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("job %s not registered", name)
	}
	if entry.running {
		s.mu.Unlock()
		return fmt.Errorf("job %s is already running", name)
	}
	entry.running = true
	fn := entry.fn
	s.mu.Unlock()

	started := time.Now()
	s.logger.Info().Str("job", name).Msg("Manually triggered job")

	err := fn(ctx)
	s.finishJob(name, started, err)
	return err
}

// JobStatuses returns status for all registered jobs.
func (s *Service) JobStatuses() []interfaces.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]interfaces.JobStatus, 0, len(s.jobs))
	for _, entry := range s.jobs {
		status := interfaces.JobStatus{
			Name:      entry.name,
			Schedule:  entry.schedule,
			Enabled:   entry.enabled,
			Running:   entry.running,
			LastRun:   entry.lastRun,
			LastError: entry.lastError,
			RunCount:  entry.runCount,
		}
		if s.started && entry.enabled {
			next := s.cron.Entry(entry.entryID).Next
			if !next.IsZero() {
				status.NextRun = &next
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Start begins the scheduler loop.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.cron.Start()
	s.started = true
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs or context expiry.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info().Msg("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out: %w", ctx.Err())
	}
}
