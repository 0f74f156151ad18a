package datadog

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/logger"
)

// ConnectorType is the identifier reported by Type.
const ConnectorType = "datadog"

// Ensure Connector implements the interface.
var _ driven.CatalogConnector = (*Connector)(nil)

// Connector pages through the Datadog service catalog.
type Connector struct {
	config *Config
	client *Client
	mu     sync.Mutex
	closed bool
}

// New creates a new catalog connector.
func New(cfg *Config) *Connector {
	return NewWithClient(cfg, NewClient(cfg))
}

// NewWithClient creates a connector around an existing client.
func NewWithClient(cfg *Config, client *Client) *Connector {
	return &Connector{
		config: cfg,
		client: client,
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return ConnectorType
}

// Config returns the connector configuration.
func (c *Connector) Config() *Config {
	return c.config
}

// Validate checks that the API accepts the configured keys.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := c.client.ValidateCredentials(ctx); err != nil {
		if IsUnauthorized(err) {
			return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
		}
		return fmt.Errorf("validate credentials: %w", err)
	}

	return nil
}

// Pages walks the entity listing from offset zero until the remote stops
// advertising a next page.
func (c *Connector) Pages(ctx context.Context) (<-chan domain.RawPage, <-chan error) {
	pagesChan := make(chan domain.RawPage)
	errsChan := make(chan error, 1)

	go func() {
		defer close(pagesChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		offset := 0
		delivered := 0

		for {
			if err := ctx.Err(); err != nil {
				errsChan <- err
				return
			}

			page, err := c.client.FetchPage(ctx, offset)
			if err != nil {
				errsChan <- fmt.Errorf("fetch page at offset %d: %w", offset, err)
				return
			}

			if !page.HasData {
				logger.Warn("datadog: response at offset %d has no data array, stopping pagination", offset)
				errsChan <- &driven.FetchComplete{Pages: delivered, Truncated: true}
				return
			}

			raw := domain.RawPage{
				Offset:  offset,
				Records: make([]domain.RawRecord, len(page.Records)),
			}
			copy(raw.Records, page.Records)

			select {
			case <-ctx.Done():
				errsChan <- ctx.Err()
				return
			case pagesChan <- raw:
			}
			delivered++
			logger.Debug("datadog: page %d at offset %d with %d records", delivered, offset, len(raw.Records))

			if page.Next == "" {
				break
			}

			next, ok := ParseNextOffset(page.Next)
			if !ok {
				logger.Warn("datadog: cannot read page offset from next link %q, stopping pagination", page.Next)
				break
			}
			if next <= offset {
				errsChan <- &MalformedPageError{
					Offset: offset,
					Reason: fmt.Sprintf("next link does not advance (offset %d)", next),
				}
				return
			}
			offset = next
		}

		errsChan <- &driven.FetchComplete{Pages: delivered}
	}()

	return pagesChan, errsChan
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
