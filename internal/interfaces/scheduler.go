package interfaces

import (
	"context"
	"time"
)

// JobFunc is the work a scheduled job performs.
type JobFunc func(ctx context.Context) error

// JobStatus describes the current state of a registered job.
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Enabled   bool       `json:"enabled"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	RunCount  int        `json:"run_count"`
}

// SchedulerService manages cron-scheduled jobs.
type SchedulerService interface {
	// RegisterJob registers a named job with a cron schedule.
	RegisterJob(name, schedule string, fn JobFunc) error

	// EnableJob resumes scheduling for a job.
	EnableJob(name string) error

	// DisableJob stops scheduling a job without unregistering it.
	DisableJob(name string) error

	// TriggerJob runs a job immediately, outside its schedule.
	TriggerJob(ctx context.Context, name string) error

	// JobStatuses returns status for all registered jobs.
	JobStatuses() []JobStatus

	// Start begins the scheduler loop.
	Start() error

	// Stop halts the scheduler and waits for running jobs.
	Stop(ctx context.Context) error
}
