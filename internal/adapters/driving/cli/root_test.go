package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalog-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/catalog-ingest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/catalog-ingest/internal/core/services"
)

// fakePipeline implements driving.CatalogSync for testing.
type fakePipeline struct {
	name      string
	entities  []domain.Entity
	skipped   int
	runErr    error
	scheduler driven.TaskScheduler

	mu   sync.Mutex
	conn driven.EntityProviderConnection
	runs int
}

func (p *fakePipeline) ProviderName() string { return p.name }

func (p *fakePipeline) Connect(ctx context.Context, conn driven.EntityProviderConnection) error {
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	if p.scheduler == nil {
		return nil
	}
	return p.scheduler.Schedule(ctx, domain.TaskDefinition{
		ID:             p.name,
		Name:           "Catalog sync (" + p.name + ")",
		Schedule:       domain.Schedule{Cron: "@every 1h"},
		RunImmediately: true,
		Run:            p.Run,
	})
}

func (p *fakePipeline) Run(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs++
	if p.conn == nil {
		return 0, domain.ErrNotConnected
	}
	if p.runErr != nil {
		return 0, p.runErr
	}
	if err := p.conn.ApplyMutation(ctx, domain.NewFullMutation(p.name, p.entities)); err != nil {
		return 0, err
	}
	return len(p.entities), nil
}

func (p *fakePipeline) Status() driving.SyncStatus {
	return driving.SyncStatus{
		Provider: p.name,
		State:    domain.SyncIdle,
		LastRun:  &domain.SyncRun{Provider: p.name, State: domain.SyncSucceeded, Skipped: p.skipped},
	}
}

// testEnv holds the adapters wired into the command tree for one test.
type testEnv struct {
	store  *sqlite.Store
	config *file.ConfigStore

	mu       sync.Mutex
	configs  []domain.ProviderConfig
	pipeline *fakePipeline
}

func (e *testEnv) factory(
	cfg domain.ProviderConfig,
	scheduler driven.TaskScheduler,
	_ driven.SyncRunStore,
	_ driven.SyncObserver,
) (driving.CatalogSync, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configs = append(e.configs, cfg)
	p := &fakePipeline{
		name:      cfg.Name,
		entities:  e.pipeline.entities,
		skipped:   e.pipeline.skipped,
		runErr:    e.pipeline.runErr,
		scheduler: scheduler,
	}
	return p, nil
}

func (e *testEnv) factoryCalls() []domain.ProviderConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.ProviderConfig(nil), e.configs...)
}

func setupCLI(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv(services.EnvAPIKey, "")
	t.Setenv(services.EnvAppKey, "")
	t.Setenv(services.EnvSite, "")

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	config, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{store: store, config: config, pipeline: &fakePipeline{}}

	SetDependencies(Dependencies{
		Config:      config,
		Entities:    store.EntityStore(),
		Runs:        store.SyncRunStore(),
		Tasks:       store.SchedulerStore(),
		NewPipeline: env.factory,
	})

	t.Cleanup(func() {
		SetDependencies(Dependencies{})
		syncDryRun = false
		entitiesKind = ""
		entitiesProvider = ""
		exportOutput = ""
		statusLimit = 5
		verbose = false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		if help := rootCmd.Flags().Lookup("help"); help != nil {
			_ = help.Value.Set("false")
		}
		_ = store.Close()
	})
	return env
}

func (e *testEnv) setCredentials(t *testing.T) {
	t.Helper()
	require.NoError(t, e.config.Set(services.KeyProviderAPIKey, "api-key-123456"))
	require.NoError(t, e.config.Set(services.KeyProviderAppKey, "app-key-654321"))
}

func execute(ctx context.Context, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCmd_ListsCommands(t *testing.T) {
	setupCLI(t)

	out, err := execute(context.Background(), "--help")

	require.NoError(t, err)
	for _, name := range []string{"sync", "serve", "entities", "status", "config", "version"} {
		require.True(t, strings.Contains(out, name), "missing command %s", name)
	}
}

func TestRootCmd_UnconfiguredDependencies(t *testing.T) {
	setupCLI(t)
	SetDependencies(Dependencies{})

	for _, args := range [][]string{{"sync"}, {"serve"}, {"status"}, {"entities", "list"}, {"config", "show"}} {
		_, err := execute(context.Background(), args...)
		require.Error(t, err, "%v", args)
	}
}

func TestProviderName(t *testing.T) {
	env := setupCLI(t)
	require.Equal(t, domain.DefaultProviderName, providerName())

	require.NoError(t, env.config.Set(services.KeyProviderName, "dd-eu"))
	require.Equal(t, "dd-eu", providerName())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	require.Equal(t, original, version)
	SetVersion("1.2.3")
	require.Equal(t, "1.2.3", version)
}

var errBoom = errors.New("boom")
