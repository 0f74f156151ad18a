package driven

import (
	"context"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// SyncRunStore persists the outcome of each pipeline run.
type SyncRunStore interface {
	// Save stores a finished run.
	Save(ctx context.Context, run *domain.SyncRun) error

	// List returns recent runs for a provider, most recent first.
	List(ctx context.Context, provider string, limit int) ([]domain.SyncRun, error)
}
