package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Recognised keys:

  provider.name             provider name and location key
  provider.site             Datadog site, e.g. datadoghq.eu
  provider.page_size        records per page (1-1000)
  schedule.cron             cron expression or @every descriptor
  schedule.timeout          bound on one scheduled run, e.g. 10m
  storage.data_dir          directory of the local catalog database
  metrics.addr              listen address for /metrics, empty disables

Use 'config credentials' to set the API keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configCredentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Set the API and application keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigCredentials,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configCredentialsCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := requireConfig(); err != nil {
		return err
	}

	cmd.Println(titleStyle.Render("Configuration"))
	cmd.Println(mutedStyle.Render(configStore.Path()))
	cmd.Println()

	for _, key := range services.ConfigKeys() {
		value, ok := configStore.Get(key)
		switch {
		case !ok:
			cmd.Printf("  %-26s %s\n", key, mutedStyle.Render("(not set)"))
		case services.IsSecretKey(key):
			cmd.Printf("  %-26s %s\n", key, maskAPIKey(fmt.Sprint(value)))
		default:
			cmd.Printf("  %-26s %v\n", key, value)
		}
	}
	cmd.Println()

	if _, err := services.LoadProviderConfig(configStore); err != nil {
		cmd.Println(errorStyle.Render(fmt.Sprintf("Warning: %v", err)))
		return nil
	}
	cmd.Println(successStyle.Render("Configuration is valid."))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireConfig(); err != nil {
		return err
	}

	key, raw := args[0], strings.TrimSpace(args[1])
	if !slices.Contains(services.ConfigKeys(), key) {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
	if services.IsSecretKey(key) {
		return fmt.Errorf("%w: use 'config credentials' to set %s", domain.ErrInvalidInput, key)
	}

	var value any = raw
	switch key {
	case services.KeyProviderPageSize:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > domain.MaxPageSize {
			return fmt.Errorf("%w: page size must be 1-%d", domain.ErrInvalidInput, domain.MaxPageSize)
		}
		value = n
	case services.KeyScheduleTimeout:
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

func runConfigCredentials(cmd *cobra.Command, _ []string) error {
	if err := requireConfig(); err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Print("API key: ")
	apiKey := readSecret(cmd.InOrStdin(), reader)
	cmd.Println()
	cmd.Print("Application key: ")
	appKey := readSecret(cmd.InOrStdin(), reader)
	cmd.Println()

	if apiKey == "" || appKey == "" {
		return fmt.Errorf("%w: both keys are required", domain.ErrConfigMissing)
	}

	if err := configStore.Set(services.KeyProviderAPIKey, apiKey); err != nil {
		return err
	}
	if err := configStore.Set(services.KeyProviderAppKey, appKey); err != nil {
		return err
	}

	cmd.Printf("Stored API key %s and application key %s\n", maskAPIKey(apiKey), maskAPIKey(appKey))
	return nil
}

// readSecret reads a line without echo when in is a terminal.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
