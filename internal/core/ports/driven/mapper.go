package driven

import "github.com/custodia-labs/catalog-ingest/internal/core/domain"

// EntityMapper transforms one raw record into a catalog entity.
type EntityMapper interface {
	// Map converts raw into an entity.
	// Returns nil and no error when the record carries no name and is skipped.
	// Returns a *domain.RecordMappingError when the record cannot be decoded.
	Map(raw domain.RawRecord) (*domain.Entity, error)
}
