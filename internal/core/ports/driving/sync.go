package driving

import (
	"context"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// CatalogSync ingests the remote catalog into the destination catalog.
type CatalogSync interface {
	// ProviderName returns the provider's stable name.
	ProviderName() string

	// Connect stores the destination connection and registers the
	// recurring run with the scheduler, if any.
	Connect(ctx context.Context, conn driven.EntityProviderConnection) error

	// Run performs one full fetch-map-replace pass and returns the number
	// of entities submitted. Returns domain.ErrNotConnected before Connect.
	Run(ctx context.Context) (int, error)

	// Status returns the current state and the last finished run.
	Status() SyncStatus
}

// SyncStatus represents the current state of the pipeline.
type SyncStatus struct {
	// Provider identifies the provider.
	Provider string

	// State is the current state machine phase.
	State domain.SyncState

	// Connected reports whether a destination connection is set.
	Connected bool

	// PagesFetched and EntitiesMapped track the active run.
	PagesFetched   int
	EntitiesMapped int

	// LastRun is the most recent finished run, or nil.
	LastRun *domain.SyncRun
}
