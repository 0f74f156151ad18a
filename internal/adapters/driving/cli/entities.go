package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalog-ingest/internal/adapters/driven/export/descriptor"
	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

var (
	entitiesKind     string
	entitiesProvider string
	exportOutput     string
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Inspect the local catalog",
}

var entitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entities",
	Args:  cobra.NoArgs,
	RunE:  runEntitiesList,
}

var entitiesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored entities as YAML descriptors",
	Long: `Writes the stored entities as a multi-document YAML stream, one
descriptor per entity. Writes to stdout unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runEntitiesExport,
}

func init() {
	entitiesCmd.PersistentFlags().StringVarP(&entitiesProvider, "provider", "p", "", "only entities from this provider")
	entitiesListCmd.Flags().StringVarP(&entitiesKind, "kind", "k", "", "only entities of this kind (System or Component)")
	entitiesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write instead of stdout")

	entitiesCmd.AddCommand(entitiesListCmd)
	entitiesCmd.AddCommand(entitiesExportCmd)
	rootCmd.AddCommand(entitiesCmd)
}

func runEntitiesList(cmd *cobra.Command, _ []string) error {
	entities, err := loadEntities(cmd)
	if err != nil {
		return err
	}

	if entitiesKind != "" {
		filtered := entities[:0]
		for _, e := range entities {
			if strings.EqualFold(string(e.Entity.Kind), entitiesKind) {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	if len(entities) == 0 {
		cmd.Println("No entities found.")
		return nil
	}

	cmd.Println(renderEntities(entities))
	cmd.Println(mutedStyle.Render(fmt.Sprintf("%d entities", len(entities))))
	return nil
}

func runEntitiesExport(cmd *cobra.Command, _ []string) error {
	entities, err := loadEntities(cmd)
	if err != nil {
		return err
	}

	batch := make([]domain.Entity, 0, len(entities))
	for _, e := range entities {
		batch = append(batch, e.Entity)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	n, err := descriptor.Write(w, batch)
	if err != nil {
		return err
	}
	if exportOutput != "" {
		cmd.Printf("Exported %d entities to %s\n", n, exportOutput)
	}
	return nil
}

func loadEntities(cmd *cobra.Command) ([]domain.DeferredEntity, error) {
	if entityStore == nil {
		return nil, errors.New("entity store not configured")
	}
	entities, err := entityStore.List(commandContext(cmd), entitiesProvider)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return entities, nil
}

func renderEntities(entities []domain.DeferredEntity) string {
	rows := make([][]string, 0, len(entities))
	for _, d := range entities {
		rows = append(rows, []string{
			d.Entity.Ref(),
			d.Entity.Spec.Type,
			d.Entity.Spec.Owner,
			d.Entity.Spec.Lifecycle,
			d.LocationKey,
		})
	}
	return renderTable([]string{"REF", "TYPE", "OWNER", "LIFECYCLE", "PROVIDER"}, rows)
}
