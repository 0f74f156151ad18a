package driven

import (
	"context"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// TaskScheduler runs registered tasks on their schedule.
// Implementations must never run two invocations of the same task at once.
type TaskScheduler interface {
	// Schedule registers (or replaces) a recurring task.
	Schedule(ctx context.Context, task domain.TaskDefinition) error

	// Unschedule removes a task. Unknown IDs are ignored.
	Unschedule(taskID string)
}
