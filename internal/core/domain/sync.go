package domain

import "time"

// SyncState is a phase of the catalog sync state machine.
type SyncState string

const (
	SyncIdle       SyncState = "idle"
	SyncConnecting SyncState = "connecting"
	SyncRunning    SyncState = "running"
	SyncSucceeded  SyncState = "succeeded"
	SyncFailed     SyncState = "failed"
)

// SyncRun records the outcome of one pipeline run.
type SyncRun struct {
	// ID is a unique run identifier.
	ID string

	// Provider is the provider name (and location key).
	Provider string

	// State is SyncSucceeded or SyncFailed once finished.
	State SyncState

	// Pages is the number of pages fetched.
	Pages int

	// Records is the number of raw records received.
	Records int

	// Entities is the number of entities submitted.
	Entities int

	// Skipped counts records dropped during mapping.
	Skipped int

	// Error holds the failure message, if any.
	Error string

	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns how long the run took.
func (r *SyncRun) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
