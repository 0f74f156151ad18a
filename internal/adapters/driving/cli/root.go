// Package cli provides the cobra command tree of catalog-ingest.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/catalog-ingest/internal/core/services"
	"github.com/custodia-labs/catalog-ingest/internal/logger"
)

// PipelineFactory builds a catalog sync for a provider configuration.
// The scheduler and observer may be nil.
type PipelineFactory func(
	cfg domain.ProviderConfig,
	scheduler driven.TaskScheduler,
	runs driven.SyncRunStore,
	observer driven.SyncObserver,
) (driving.CatalogSync, error)

// ConfigWatcher reloads configuration on change and calls onChange afterwards.
type ConfigWatcher func(ctx context.Context, onChange func()) error

// Dependencies are the adapters the commands operate on.
type Dependencies struct {
	Config      driven.ConfigStore
	Entities    driven.EntityStore
	Runs        driven.SyncRunStore
	Tasks       driven.SchedulerStore
	NewPipeline PipelineFactory
	WatchConfig ConfigWatcher
}

var (
	version = "dev"
	verbose bool

	configStore    driven.ConfigStore
	entityStore    driven.EntityStore
	syncRunStore   driven.SyncRunStore
	schedulerStore driven.SchedulerStore
	newPipeline    PipelineFactory
	watchConfig    ConfigWatcher
)

var rootCmd = &cobra.Command{
	Use:   "catalog-ingest",
	Short: "Ingest a remote service catalog into a local software catalog",
	Long: `catalog-ingest pulls every record from the Datadog service catalog,
normalises it into a catalog entity and replaces the provider's entity set
in the local catalog on every run.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetDependencies wires the commands to their adapters.
func SetDependencies(deps Dependencies) {
	configStore = deps.Config
	entityStore = deps.Entities
	syncRunStore = deps.Runs
	schedulerStore = deps.Tasks
	newPipeline = deps.NewPipeline
	watchConfig = deps.WatchConfig
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func requireConfig() error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	return nil
}

// providerName returns the configured provider name without requiring
// credentials to be present.
func providerName() string {
	if configStore != nil {
		if name := configStore.GetString(services.KeyProviderName); name != "" {
			return name
		}
	}
	return domain.DefaultProviderName
}
