package datadog

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteAPIError represents a non-2xx response from the catalog API.
type RemoteAPIError struct {
	StatusCode int
	Status     string
	Body       string
	URL        string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("datadog: API error %d %s: %s (URL: %s)", e.StatusCode, e.Status, e.Body, e.URL)
}

// MalformedPageError represents a page body that cannot be interpreted.
type MalformedPageError struct {
	Offset int
	Reason string
	Err    error
}

func (e *MalformedPageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("datadog: malformed page at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("datadog: malformed page at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedPageError) Unwrap() error {
	return e.Err
}

// IsRemoteAPIError checks if the error came from a non-2xx response.
func IsRemoteAPIError(err error) bool {
	var apiErr *RemoteAPIError
	return errors.As(err, &apiErr)
}

// IsMalformedPage checks if the error came from an undecodable page.
func IsMalformedPage(err error) bool {
	var pageErr *MalformedPageError
	return errors.As(err, &pageErr)
}

// IsUnauthorized checks if the error indicates rejected credentials.
func IsUnauthorized(err error) bool {
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
