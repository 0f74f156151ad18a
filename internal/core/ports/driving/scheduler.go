package driving

import "context"

// Scheduler drives the recurring syncs registered with it.
type Scheduler interface {
	// Start fires due tasks until ctx is done or Stop is called.
	Start(ctx context.Context) error

	// Stop waits for in-flight tasks and halts the schedule.
	Stop() error
}
