package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalog-ingest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/core/services"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one catalog sync",
	Long: `Fetches the complete remote catalog, maps every record and replaces the
provider's entities in the local catalog.

With --dry-run the entities are mapped and listed but nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "map entities without writing them")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := requireConfig(); err != nil {
		return err
	}
	if newPipeline == nil {
		return errors.New("sync pipeline not configured")
	}

	cfg, err := services.LoadProviderConfig(configStore)
	if err != nil {
		return fmt.Errorf("loading provider config: %w", err)
	}

	var dest driven.EntityStore = entityStore
	runs := syncRunStore
	if syncDryRun {
		dest = memory.NewEntityStore()
		runs = nil
	}
	if dest == nil {
		return errors.New("entity store not configured")
	}

	pipeline, err := newPipeline(cfg, nil, runs, nil)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	ctx := commandContext(cmd)
	if err := pipeline.Connect(ctx, dest); err != nil {
		return fmt.Errorf("connecting pipeline: %w", err)
	}

	cmd.Printf("Synchronising %s from %s...\n", cfg.Name, cfg.Site)
	count, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	status := pipeline.Status()
	if status.LastRun != nil && status.LastRun.Skipped > 0 {
		cmd.Println(mutedStyle.Render(fmt.Sprintf("Skipped %d records", status.LastRun.Skipped)))
	}

	if syncDryRun {
		cmd.Printf("Dry run: %d entities would be written.\n", count)
		entities, err := dest.List(ctx, cfg.Name)
		if err != nil {
			return err
		}
		if len(entities) > 0 {
			cmd.Println(renderEntities(entities))
		}
		return nil
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Synchronised %d entities.", count)))
	return nil
}
