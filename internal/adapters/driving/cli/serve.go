package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/catalog-ingest/internal/core/services"
	"github.com/custodia-labs/catalog-ingest/internal/logger"
	"github.com/custodia-labs/catalog-ingest/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run catalog syncs on the configured schedule",
	Long: `Runs the catalog sync on schedule.cron until interrupted. The first run
starts immediately. When metrics.addr is set, Prometheus metrics are served
on /metrics. Changes to the config file are picked up without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// server holds the running pipeline so config reloads can replace it.
type server struct {
	mu        sync.Mutex
	scheduler *services.Scheduler
	recorder  *metrics.Recorder
	pipeline  driving.CatalogSync
	cfg       domain.ProviderConfig
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireConfig(); err != nil {
		return err
	}
	if newPipeline == nil || entityStore == nil || schedulerStore == nil {
		return errors.New("serve dependencies not configured")
	}

	cfg, err := services.LoadProviderConfig(configStore)
	if err != nil {
		return fmt.Errorf("loading provider config: %w", err)
	}

	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	srv := &server{
		scheduler: services.NewScheduler(schedulerStore),
		recorder:  metrics.NewRecorder(),
	}
	if err := srv.install(ctx, cfg); err != nil {
		return err
	}

	errCh := make(chan error, 2)
	if addr := services.MetricsAddr(configStore); addr != "" {
		go func() {
			errCh <- metrics.NewServer(addr, srv.recorder).Run(ctx)
		}()
	}

	if watchConfig != nil {
		if err := watchConfig(ctx, func() { srv.reload(ctx) }); err != nil {
			logger.Warn("config watch disabled: %v", err)
		}
	}

	cmd.Printf("Serving %s on schedule %q\n", cfg.Name, cfg.Schedule.Cron)

	go func() {
		errCh <- srv.scheduler.Start(ctx)
	}()

	err = <-errCh
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	cmd.Println("Scheduler stopped.")
	return nil
}

// install builds a pipeline for cfg and registers it with the scheduler.
// A renamed provider has its previous task removed.
func (s *server) install(ctx context.Context, cfg domain.ProviderConfig) error {
	pipeline, err := newPipeline(cfg, s.scheduler, syncRunStore, s.recorder)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	if err := pipeline.Connect(ctx, entityStore); err != nil {
		return fmt.Errorf("connecting pipeline: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeline != nil && s.pipeline.ProviderName() != pipeline.ProviderName() {
		s.scheduler.Unschedule(s.pipeline.ProviderName())
	}
	s.pipeline = pipeline
	s.cfg = cfg
	return nil
}

// reload reinstalls the pipeline when the provider configuration changed.
func (s *server) reload(ctx context.Context) {
	cfg, err := services.LoadProviderConfig(configStore)
	if err != nil {
		logger.Warn("ignoring config change: %v", err)
		return
	}

	s.mu.Lock()
	unchanged := cfg == s.cfg
	s.mu.Unlock()
	if unchanged {
		return
	}

	if err := s.install(ctx, cfg); err != nil {
		logger.Error("reinstalling pipeline: %v", err)
		return
	}
	logger.Info("provider %s rescheduled on %q", cfg.Name, cfg.Schedule.Cron)
}
