package driven

import (
	"context"
	"errors"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// CatalogConnector fetches raw service records from a remote catalog API.
type CatalogConnector interface {
	// Type returns the connector type identifier (e.g. "datadog").
	Type() string

	// Validate checks that the configured credentials are accepted.
	// Returns nil if ready to fetch, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// Pages walks the remote pagination to exhaustion.
	// Pages are delivered in server order on the first channel. The error
	// channel receives either one fatal error or a FetchComplete sentinel.
	// The sequence is finite and cannot be restarted.
	Pages(ctx context.Context) (<-chan domain.RawPage, <-chan error)

	// Close releases resources.
	Close() error
}

// FetchComplete is sent on the error channel when pagination ends cleanly.
type FetchComplete struct {
	// Pages is the number of pages delivered.
	Pages int

	// Truncated is true when the remote omitted the data array and the
	// walk stopped early.
	Truncated bool
}

// Error implements the error interface.
// This allows FetchComplete to be sent on the error channel.
func (FetchComplete) Error() string {
	return "fetch complete"
}

// IsFetchComplete checks if an error is actually a successful completion.
// Returns the FetchComplete and true if it is, nil and false otherwise.
func IsFetchComplete(err error) (*FetchComplete, bool) {
	var fc *FetchComplete
	if errors.As(err, &fc) {
		return fc, true
	}
	return nil, false
}
