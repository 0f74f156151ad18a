package datadog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(domain.ProviderConfig{
		APIKey:         "api",
		ApplicationKey: "app",
		Site:           "datadoghq.eu",
		PageSize:       250,
	})

	assert.Equal(t, "https://api.datadoghq.eu", cfg.APIURL)
	assert.Equal(t, "api", cfg.APIKey)
	assert.Equal(t, "app", cfg.ApplicationKey)
	assert.Equal(t, 250, cfg.PageSize)
	assert.Equal(t, "https://api.datadoghq.eu/api/v2/catalog", cfg.CatalogURL())
	assert.Equal(t, "https://api.datadoghq.eu/api/v2/catalog/entity", cfg.EntityURL())
	assert.Equal(t, "https://api.datadoghq.eu/api/v1/validate", cfg.ValidateURL())
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(domain.ProviderConfig{})

	assert.Equal(t, "https://api.datadoghq.com", cfg.APIURL)
	assert.Equal(t, domain.DefaultPageSize, cfg.PageSize)
}

func TestConfig_TrailingSlash(t *testing.T) {
	cfg := &Config{APIURL: "http://127.0.0.1:8080/"}

	assert.Equal(t, "http://127.0.0.1:8080/api/v2/catalog/entity", cfg.EntityURL())
}
