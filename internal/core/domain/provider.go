package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultProviderName is the provider name used when none is configured.
	DefaultProviderName = "datadog-catalog"

	// DefaultSite is the public site used when none is configured.
	DefaultSite = "datadoghq.com"

	// DefaultPageSize is the number of records requested per page.
	DefaultPageSize = 100

	// MaxPageSize is the largest page the remote API accepts.
	MaxPageSize = 1000

	// DefaultScheduleCron runs a sync every half hour.
	DefaultScheduleCron = "@every 30m"

	// DefaultScheduleTimeout bounds a single scheduled run.
	DefaultScheduleTimeout = 10 * time.Minute
)

// ProviderConfig is the validated configuration of one provider instance.
type ProviderConfig struct {
	// Name identifies the provider. It is the scheduler task ID and the
	// location key of every emitted entity, so it must be unique.
	Name string

	// APIKey and ApplicationKey authenticate against the remote API.
	APIKey         string
	ApplicationKey string

	// Site is the remote domain, e.g. "datadoghq.eu".
	Site string

	// PageSize is the page[limit] sent with each request.
	PageSize int

	// Schedule controls recurring runs.
	Schedule Schedule
}

// Schedule describes when a provider runs.
type Schedule struct {
	// Cron is a robfig/cron expression, including descriptors like "@every 1h".
	Cron string

	// Timeout bounds a single run. Zero means no bound.
	Timeout time.Duration
}

// Validate checks required fields and fills defaults.
func (c *ProviderConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key", ErrConfigMissing)
	}
	if strings.TrimSpace(c.ApplicationKey) == "" {
		return fmt.Errorf("%w: application key", ErrConfigMissing)
	}
	if c.Name == "" {
		c.Name = DefaultProviderName
	}
	if c.Site == "" {
		c.Site = DefaultSite
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize < 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d out of range 1-%d", ErrInvalidInput, c.PageSize, MaxPageSize)
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultScheduleCron
	}
	return nil
}
