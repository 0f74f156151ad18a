package datadog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// Page is one decoded page envelope.
type Page struct {
	// Offset is the offset the page was requested with.
	Offset int

	// Records are the raw data items. Nil when HasData is false.
	Records []json.RawMessage

	// HasData is false when the response carried no data member.
	HasData bool

	// Next is links.next when it is a string, empty otherwise.
	Next string
}

// pageEnvelope mirrors the top-level response shape.
type pageEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Links json.RawMessage `json:"links"`
}

// Client wraps net/http with authentication headers and rate limiting.
type Client struct {
	http        *http.Client
	config      *Config
	rateLimiter *RateLimiter
}

// NewClient creates a new catalog API client.
func NewClient(cfg *Config) *Client {
	return NewClientWithHTTPClient(cfg, &http.Client{Timeout: DefaultTimeout})
}

// NewClientWithHTTPClient creates a client with a custom http.Client.
// Useful for tests and for callers that manage their own transport.
func NewClientWithHTTPClient(cfg *Config, httpClient *http.Client) *Client {
	return &Client{
		http:        httpClient,
		config:      cfg,
		rateLimiter: NewRateLimiter(),
	}
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// FetchPage requests one page of entities starting at offset.
func (c *Client) FetchPage(ctx context.Context, offset int) (*Page, error) {
	pageURL := BuildPageURL(c.config.EntityURL(), c.config.PageSize, offset)

	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	return decodePage(body, offset)
}

// ValidateCredentials checks the API key against the validation endpoint.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	_, err := c.get(ctx, c.config.ValidateURL())
	return err
}

// get performs an authenticated GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.config.APIKey)
	req.Header.Set(HeaderApplicationKey, c.config.ApplicationKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromResponse(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		//nolint:errcheck // best effort, the status is what matters
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RemoteAPIError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(errBody)),
			URL:        req.URL.Path,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// decodePage interprets a page body.
// A missing or null data member is not an error: HasData is false.
func decodePage(body []byte, offset int) (*Page, error) {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedPageError{Offset: offset, Reason: "invalid JSON", Err: err}
	}

	page := &Page{Offset: offset}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return page, nil
	}

	if err := json.Unmarshal(data, &page.Records); err != nil {
		return nil, &MalformedPageError{Offset: offset, Reason: "data is not an array", Err: err}
	}
	page.HasData = true
	page.Next = nextLink(env.Links)

	return page, nil
}

// nextLink returns links.next if links is an object and next is a string.
func nextLink(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var links map[string]json.RawMessage
	if err := json.Unmarshal(raw, &links); err != nil {
		return ""
	}
	var next string
	if err := json.Unmarshal(links["next"], &next); err != nil {
		return ""
	}
	return next
}
