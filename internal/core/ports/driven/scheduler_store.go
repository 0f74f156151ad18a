package driven

import (
	"context"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// SchedulerStore keeps recurring task state across restarts, along with a
// bounded history of executions per task.
type SchedulerStore interface {
	// GetTask returns one task. Returns domain.ErrNotFound if absent.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns every task ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or replaces a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// SetEnabled flips a task's enabled flag, leaving its run fields intact.
	// Returns domain.ErrNotFound if absent.
	SetEnabled(ctx context.Context, taskID string, enabled bool) error

	// RecordResult appends one execution and trims the task's history to
	// the newest keep entries.
	RecordResult(ctx context.Context, result *domain.TaskResult, keep int) error

	// History returns a task's executions, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
