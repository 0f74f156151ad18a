package domain

import (
	"context"
	"time"
)

// TaskFunc is the body of a scheduled task. It returns the number of
// items it processed.
type TaskFunc func(ctx context.Context) (int, error)

// TaskDefinition registers a recurring task with the scheduler.
type TaskDefinition struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Schedule defines when the task runs.
	Schedule Schedule

	// RunImmediately triggers one run as soon as the task is registered.
	RunImmediately bool

	// Run is invoked on every tick.
	Run TaskFunc
}

// ScheduledTask represents the persisted state of a recurring task.
type ScheduledTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Cron is the schedule expression the task runs on.
	Cron string

	// LastRun is when the task last ran.
	LastRun time.Time

	// NextRun is when the task should run next.
	NextRun time.Time

	// LastError contains the last error message, if any.
	LastError string

	// LastSuccess is when the task last completed successfully.
	LastSuccess time.Time

	// Enabled indicates whether the task is active.
	Enabled bool
}

// TaskResult represents the outcome of a task execution.
type TaskResult struct {
	// TaskID identifies which task was run.
	TaskID string

	// StartedAt is when the task started.
	StartedAt time.Time

	// EndedAt is when the task completed.
	EndedAt time.Time

	// Success indicates whether the task completed without error.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// ItemsProcessed is a count of items handled (entities submitted).
	ItemsProcessed int
}

// HistoryRetention is the number of results kept per task.
const HistoryRetention = 100
