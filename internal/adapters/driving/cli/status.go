package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored entities, recent runs and scheduled tasks",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 5, "number of recent runs to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if entityStore == nil || syncRunStore == nil {
		return errors.New("storage not configured")
	}

	ctx := commandContext(cmd)
	provider := providerName()

	count, err := entityStore.Count(ctx, provider)
	if err != nil {
		return fmt.Errorf("counting entities: %w", err)
	}

	cmd.Println(titleStyle.Render("Provider " + provider))
	cmd.Printf("  Entities: %d\n\n", count)

	runs, err := syncRunStore.List(ctx, provider, statusLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	cmd.Println(titleStyle.Render("Recent runs"))
	if len(runs) == 0 {
		cmd.Println(mutedStyle.Render("  No runs recorded."))
	} else {
		cmd.Println(renderRuns(runs))
	}

	if schedulerStore == nil {
		return nil
	}
	tasks, err := schedulerStore.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	cmd.Println()
	cmd.Println(titleStyle.Render("Scheduled tasks"))
	if len(tasks) == 0 {
		cmd.Println(mutedStyle.Render("  No tasks scheduled. Run 'catalog-ingest serve' to start one."))
		return nil
	}
	history := make(map[string][]domain.TaskResult, len(tasks))
	for _, t := range tasks {
		results, err := schedulerStore.History(ctx, t.ID, domain.HistoryRetention)
		if err != nil {
			return fmt.Errorf("reading history of %s: %w", t.ID, err)
		}
		history[t.ID] = results
	}
	cmd.Println(renderTasks(tasks, history))
	return nil
}

func renderRuns(runs []domain.SyncRun) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			formatTime(r.StartedAt),
			stateStyle(r.State == domain.SyncSucceeded).Render(string(r.State)),
			strconv.Itoa(r.Pages),
			strconv.Itoa(r.Entities),
			strconv.Itoa(r.Skipped),
			r.Duration().Round(time.Millisecond).String(),
			r.Error,
		})
	}
	return renderTable([]string{"STARTED", "STATE", "PAGES", "ENTITIES", "SKIPPED", "DURATION", "ERROR"}, rows)
}

func renderTasks(tasks []domain.ScheduledTask, history map[string][]domain.TaskResult) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		enabled := "no"
		if t.Enabled {
			enabled = "yes"
		}
		rows = append(rows, []string{
			t.ID,
			t.Cron,
			enabled,
			formatTime(t.LastRun),
			formatTime(t.NextRun),
			successRatio(history[t.ID]),
			t.LastError,
		})
	}
	return renderTable([]string{"TASK", "SCHEDULE", "ENABLED", "LAST RUN", "NEXT RUN", "SUCCEEDED", "LAST ERROR"}, rows)
}

// successRatio renders how many recorded executions succeeded.
func successRatio(results []domain.TaskResult) string {
	if len(results) == 0 {
		return "-"
	}
	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	return fmt.Sprintf("%d/%d", ok, len(results))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
