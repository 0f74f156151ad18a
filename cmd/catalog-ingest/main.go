// Command catalog-ingest ingests the Datadog service catalog into a local
// software catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/catalog-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/catalog-ingest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/catalog-ingest/internal/adapters/driving/cli"
	"github.com/custodia-labs/catalog-ingest/internal/connectors/datadog"
	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/catalog-ingest/internal/core/services"
	normaliser "github.com/custodia-labs/catalog-ingest/internal/normalisers/datadog"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	home, err := file.DefaultDir()
	if err != nil {
		return err
	}
	store, err := sqlite.NewStore(services.DataDir(configStore, filepath.Join(home, "data")))
	if err != nil {
		return fmt.Errorf("opening catalog store: %w", err)
	}
	defer store.Close()

	cli.SetVersion(version)
	cli.SetDependencies(cli.Dependencies{
		Config:      configStore,
		Entities:    store.EntityStore(),
		Runs:        store.SyncRunStore(),
		Tasks:       store.SchedulerStore(),
		NewPipeline: newPipeline,
		WatchConfig: configStore.Watch,
	})

	return cli.Execute(ctx)
}

// newPipeline wires the Datadog connector and mapper into a catalog sync.
func newPipeline(
	cfg domain.ProviderConfig,
	scheduler driven.TaskScheduler,
	runs driven.SyncRunStore,
	observer driven.SyncObserver,
) (driving.CatalogSync, error) {
	connCfg := datadog.NewConfig(cfg)
	connector := datadog.New(connCfg)
	mapper := normaliser.NewMapper(connCfg.EntityURL())
	return services.NewCatalogSync(cfg, connector, mapper, scheduler, runs, observer), nil
}
