package driven

import (
	"time"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// SyncObserver receives advisory progress events from a pipeline run.
// Implementations must not block.
type SyncObserver interface {
	// PageFetched is called once per page with its record count.
	PageFetched(provider string, records int)

	// RecordSkipped is called for every record dropped during mapping.
	RecordSkipped(provider, reason string)

	// RunFinished is called once per run with its final state.
	RunFinished(provider string, state domain.SyncState, entities int, elapsed time.Duration)
}
