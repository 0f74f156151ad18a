package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigMissing indicates a required configuration key is not set.
	ErrConfigMissing = errors.New("configuration missing")

	// ErrNotConnected indicates a sync run was requested before a destination
	// connection was established. This is a programming error, never transient.
	ErrNotConnected = errors.New("catalog sync not connected")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrSchedulerStopped indicates a task was registered after the scheduler stopped.
	ErrSchedulerStopped = errors.New("scheduler stopped")

	// ErrConnectorClosed indicates an operation on a closed connector.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrAuthInvalid indicates the remote API rejected the configured keys.
	ErrAuthInvalid = errors.New("authentication invalid")
)

// RecordMappingError reports a single raw record that could not be converted.
// It is recovered locally: the record is dropped and the run continues.
type RecordMappingError struct {
	// RecordID is the remote identifier, if it could be read.
	RecordID string

	// Err is the underlying cause.
	Err error
}

func (e *RecordMappingError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("map record: %v", e.Err)
	}
	return fmt.Sprintf("map record %s: %v", e.RecordID, e.Err)
}

func (e *RecordMappingError) Unwrap() error {
	return e.Err
}

// MutationError reports that the destination catalog rejected a batch.
// The whole run is failed; nothing is partially committed.
type MutationError struct {
	// LocationKey identifies the provider whose batch was rejected.
	LocationKey string

	// Entities is the size of the rejected batch.
	Entities int

	// Err is the underlying cause.
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("apply full mutation for %s (%d entities): %v", e.LocationKey, e.Entities, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
