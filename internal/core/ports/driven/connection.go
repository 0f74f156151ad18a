package driven

import (
	"context"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// EntityProviderConnection is the destination catalog's write handle.
type EntityProviderConnection interface {
	// ApplyMutation submits a batch. For domain.MutationFull the batch
	// replaces every entity previously provided under the same location key.
	// The call is all-or-nothing.
	ApplyMutation(ctx context.Context, mutation domain.Mutation) error
}

// EntityStore is a destination catalog that can also be read back.
type EntityStore interface {
	EntityProviderConnection

	// List returns entities for a location key ordered by insertion.
	// An empty location key lists every provider.
	List(ctx context.Context, locationKey string) ([]domain.DeferredEntity, error)

	// Get returns one entity by its reference string.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, ref string) (*domain.DeferredEntity, error)

	// Count returns the number of entities for a location key.
	Count(ctx context.Context, locationKey string) (int, error)
}
