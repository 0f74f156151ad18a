package datadog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// pageServer serves canned bodies keyed by page[offset].
type pageServer struct {
	mu       sync.Mutex
	bodies   map[int]string
	statuses map[int]int
	requests []*http.Request
}

func (s *pageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()

	offset, err := strconv.Atoi(r.URL.Query().Get("page[offset]"))
	if err != nil {
		http.Error(w, "bad offset", http.StatusBadRequest)
		return
	}
	if status, ok := s.statuses[offset]; ok {
		w.WriteHeader(status)
		fmt.Fprint(w, s.bodies[offset])
		return
	}
	body, ok := s.bodies[offset]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func (s *pageServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newTestConnector(t *testing.T, handler http.Handler) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{
		APIURL:         srv.URL,
		APIKey:         "api-key",
		ApplicationKey: "app-key",
		PageSize:       2,
	}
	return NewWithClient(cfg, NewClientWithHTTPClient(cfg, srv.Client()))
}

// drain collects every page and the terminal error.
func drain(t *testing.T, c *Connector) ([]domain.RawPage, error) {
	t.Helper()
	pagesChan, errsChan := c.Pages(context.Background())

	var pages []domain.RawPage
	for page := range pagesChan {
		pages = append(pages, page)
	}
	return pages, <-errsChan
}

func TestConnector_Type(t *testing.T) {
	c := New(&Config{})
	assert.Equal(t, "datadog", c.Type())

	var _ driven.CatalogConnector = c
}

func TestConnector_Pages(t *testing.T) {
	t.Run("single page without next link", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{
			0: `{"data":[{"id":"a"},{"id":"b"}],"links":{}}`,
		}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		fc, ok := driven.IsFetchComplete(err)
		require.True(t, ok, "expected completion, got %v", err)
		assert.Equal(t, 1, fc.Pages)
		assert.False(t, fc.Truncated)
		require.Len(t, pages, 1)
		assert.Len(t, pages[0].Records, 2)
		assert.Equal(t, 1, srv.requestCount())
	})

	t.Run("follows next link offsets", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{
			0: `{"data":[{"id":"a"},{"id":"b"}],"links":{"next":"https://api.datadoghq.com/api/v2/catalog/entity?page%5Boffset%5D=2&page%5Blimit%5D=2"}}`,
			2: `{"data":[{"id":"c"},{"id":"d"}],"links":{"next":"/api/v2/catalog/entity?page[offset]=4&page[limit]=2"}}`,
			4: `{"data":[{"id":"e"}],"links":{"self":"x"}}`,
		}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		_, ok := driven.IsFetchComplete(err)
		require.True(t, ok, "expected completion, got %v", err)
		require.Len(t, pages, 3)
		assert.Equal(t, 0, pages[0].Offset)
		assert.Equal(t, 2, pages[1].Offset)
		assert.Equal(t, 4, pages[2].Offset)
		assert.JSONEq(t, `{"id":"e"}`, string(pages[2].Records[0]))
		assert.Equal(t, 3, srv.requestCount())
	})

	t.Run("sends headers and query parameters", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{0: `{"data":[]}`}}
		c := newTestConnector(t, srv)

		_, err := drain(t, c)
		_, ok := driven.IsFetchComplete(err)
		require.True(t, ok)

		require.Equal(t, 1, srv.requestCount())
		req := srv.requests[0]
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/api/v2/catalog/entity", req.URL.Path)
		assert.Equal(t, "schema", req.URL.Query().Get("include"))
		assert.Equal(t, "2", req.URL.Query().Get("page[limit]"))
		assert.Equal(t, "0", req.URL.Query().Get("page[offset]"))
		assert.Equal(t, "api-key", req.Header.Get("DD-API-KEY"))
		assert.Equal(t, "app-key", req.Header.Get("DD-APPLICATION-KEY"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
	})

	t.Run("empty first page yields one empty page", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{0: `{"data":[]}`}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		_, ok := driven.IsFetchComplete(err)
		require.True(t, ok)
		require.Len(t, pages, 1)
		assert.Empty(t, pages[0].Records)
	})

	t.Run("missing data ends pagination and keeps earlier pages", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{
			0: `{"data":[{"id":"a"}],"links":{"next":"?page[offset]=1"}}`,
			1: `{"meta":{}}`,
		}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		fc, ok := driven.IsFetchComplete(err)
		require.True(t, ok, "expected completion, got %v", err)
		assert.True(t, fc.Truncated)
		assert.Equal(t, 1, fc.Pages)
		assert.Len(t, pages, 1)
	})

	t.Run("non-numeric next offset ends pagination", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{
			0: `{"data":[{"id":"a"}],"links":{"next":"?page[offset]=abc"}}`,
		}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		_, ok := driven.IsFetchComplete(err)
		require.True(t, ok)
		assert.Len(t, pages, 1)
		assert.Equal(t, 1, srv.requestCount())
	})

	t.Run("non-string next ends pagination", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{
			0: `{"data":[{"id":"a"}],"links":{"next":42}}`,
		}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		_, ok := driven.IsFetchComplete(err)
		require.True(t, ok)
		assert.Len(t, pages, 1)
	})

	t.Run("non-advancing next link is malformed", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{
			0: `{"data":[{"id":"a"}],"links":{"next":"?page[offset]=0"}}`,
		}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		assert.Len(t, pages, 1)
		assert.True(t, IsMalformedPage(err))
	})

	t.Run("non-2xx is a remote API error", func(t *testing.T) {
		srv := &pageServer{
			bodies:   map[int]string{0: `{"errors":["Forbidden"]}`},
			statuses: map[int]int{0: http.StatusForbidden},
		}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		assert.Empty(t, pages)
		require.Error(t, err)
		var apiErr *RemoteAPIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "Forbidden")
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("error after first page keeps yielded page", func(t *testing.T) {
		srv := &pageServer{
			bodies: map[int]string{
				0: `{"data":[{"id":"a"}],"links":{"next":"?page[offset]=1"}}`,
				1: "boom",
			},
			statuses: map[int]int{1: http.StatusInternalServerError},
		}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		assert.Len(t, pages, 1)
		assert.True(t, IsRemoteAPIError(err))
		_, ok := driven.IsFetchComplete(err)
		assert.False(t, ok)
	})

	t.Run("invalid JSON is malformed", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{0: `{"data":[`}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		assert.Empty(t, pages)
		assert.True(t, IsMalformedPage(err))
	})

	t.Run("data that is not an array is malformed", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{0: `{"data":{"id":"a"}}`}}
		c := newTestConnector(t, srv)

		pages, err := drain(t, c)

		assert.Empty(t, pages)
		assert.True(t, IsMalformedPage(err))
	})

	t.Run("closed connector", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{0: `{"data":[]}`}}
		c := newTestConnector(t, srv)
		require.NoError(t, c.Close())

		pages, err := drain(t, c)

		assert.Empty(t, pages)
		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
		assert.Equal(t, 0, srv.requestCount())
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := &pageServer{bodies: map[int]string{0: `{"data":[]}`}}
		c := newTestConnector(t, srv)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		pagesChan, errsChan := c.Pages(ctx)
		for range pagesChan {
		}

		assert.ErrorIs(t, <-errsChan, context.Canceled)
	})
}

func TestConnector_Validate(t *testing.T) {
	t.Run("accepted keys", func(t *testing.T) {
		c := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/validate", r.URL.Path)
			fmt.Fprint(w, `{"valid":true}`)
		}))

		assert.NoError(t, c.Validate(context.Background()))
	})

	t.Run("rejected keys", func(t *testing.T) {
		c := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		err := c.Validate(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})

	t.Run("closed connector", func(t *testing.T) {
		c := New(&Config{})
		require.NoError(t, c.Close())

		assert.ErrorIs(t, c.Validate(context.Background()), domain.ErrConnectorClosed)
	})
}
