package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// Config keys read from the config file.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyProviderName     = "provider.name"
	KeyProviderSite     = "provider.site"
	KeyProviderPageSize = "provider.page_size"
	KeyProviderAPIKey   = "provider.api_key"
	KeyProviderAppKey   = "provider.application_key"
	KeyScheduleCron     = "schedule.cron"
	KeyScheduleTimeout  = "schedule.timeout"
	KeyStorageDataDir   = "storage.data_dir"
	KeyMetricsAddr      = "metrics.addr"
)

// Environment variables that take precedence over the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvAPIKey = "DD_API_KEY"
	EnvAppKey = "DD_APP_KEY"
	EnvSite   = "DD_SITE"
)

// ConfigKeys lists every recognised key in display order.
func ConfigKeys() []string {
	return []string{
		KeyProviderName,
		KeyProviderSite,
		KeyProviderPageSize,
		KeyProviderAPIKey,
		KeyProviderAppKey,
		KeyScheduleCron,
		KeyScheduleTimeout,
		KeyStorageDataDir,
		KeyMetricsAddr,
	}
}

// IsSecretKey reports whether a key holds a credential.
func IsSecretKey(key string) bool {
	return key == KeyProviderAPIKey || key == KeyProviderAppKey
}

// LoadProviderConfig reads, validates and defaults the provider configuration.
// Environment variables override file values.
func LoadProviderConfig(store driven.ConfigStore) (domain.ProviderConfig, error) {
	cfg := domain.ProviderConfig{
		Name:           store.GetString(KeyProviderName),
		APIKey:         envOr(EnvAPIKey, store.GetString(KeyProviderAPIKey)),
		ApplicationKey: envOr(EnvAppKey, store.GetString(KeyProviderAppKey)),
		Site:           envOr(EnvSite, store.GetString(KeyProviderSite)),
		PageSize:       store.GetInt(KeyProviderPageSize),
		Schedule: domain.Schedule{
			Cron:    store.GetString(KeyScheduleCron),
			Timeout: domain.DefaultScheduleTimeout,
		},
	}

	if raw := strings.TrimSpace(store.GetString(KeyScheduleTimeout)); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return domain.ProviderConfig{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, KeyScheduleTimeout, err)
		}
		cfg.Schedule.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProviderConfig{}, err
	}
	return cfg, nil
}

// DataDir returns the configured storage directory, or fallback when unset.
func DataDir(store driven.ConfigStore, fallback string) string {
	if dir := strings.TrimSpace(store.GetString(KeyStorageDataDir)); dir != "" {
		return dir
	}
	return fallback
}

// MetricsAddr returns the metrics listen address. Empty disables metrics.
func MetricsAddr(store driven.ConfigStore) string {
	return strings.TrimSpace(store.GetString(KeyMetricsAddr))
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
