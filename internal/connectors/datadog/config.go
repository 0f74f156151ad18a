package datadog

import (
	"strings"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

const (
	// HeaderAPIKey carries the API key.
	HeaderAPIKey = "DD-API-KEY"

	// HeaderApplicationKey carries the application key.
	HeaderApplicationKey = "DD-APPLICATION-KEY"

	// catalogPath is the catalog API prefix below the API root.
	catalogPath = "/api/v2/catalog"

	// validatePath is the key validation endpoint below the API root.
	validatePath = "/api/v1/validate"

	// entityPath is the entity listing below the catalog prefix.
	entityPath = "/entity"
)

// Config holds the connection settings for one catalog.
type Config struct {
	// APIURL is the API root, e.g. https://api.datadoghq.com.
	APIURL string

	// APIKey and ApplicationKey authenticate every request.
	APIKey         string
	ApplicationKey string

	// PageSize is sent as page[limit].
	PageSize int
}

// NewConfig derives a connector Config from a validated provider configuration.
func NewConfig(p domain.ProviderConfig) *Config {
	site := p.Site
	if site == "" {
		site = domain.DefaultSite
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Config{
		APIURL:         "https://api." + site,
		APIKey:         p.APIKey,
		ApplicationKey: p.ApplicationKey,
		PageSize:       pageSize,
	}
}

// CatalogURL returns the catalog API prefix.
func (c *Config) CatalogURL() string {
	return strings.TrimRight(c.APIURL, "/") + catalogPath
}

// EntityURL returns the entity listing endpoint without query parameters.
// It is also recorded on every entity as its managed-by location.
func (c *Config) EntityURL() string {
	return c.CatalogURL() + entityPath
}

// ValidateURL returns the key validation endpoint.
func (c *Config) ValidateURL() string {
	return strings.TrimRight(c.APIURL, "/") + validatePath
}
