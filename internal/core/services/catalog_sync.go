package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/catalog-ingest/internal/logger"
)

// Ensure CatalogSync implements the interface.
var _ driving.CatalogSync = (*CatalogSync)(nil)

// Skip reasons reported to the observer.
const (
	SkipReasonUndecodable = "undecodable"
	SkipReasonUnnamed     = "unnamed"
)

// CatalogSync drives one provider's fetch, map and full-replace pipeline.
// Run is not reentrant; the scheduler serialises invocations.
type CatalogSync struct {
	provider  string
	schedule  domain.Schedule
	connector driven.CatalogConnector
	mapper    driven.EntityMapper
	scheduler driven.TaskScheduler
	runs      driven.SyncRunStore
	observer  driven.SyncObserver

	mu      sync.RWMutex
	conn    driven.EntityProviderConnection
	state   domain.SyncState
	pages   int
	mapped  int
	lastRun *domain.SyncRun
}

// NewCatalogSync creates the pipeline for one provider.
// The scheduler, runs and observer are optional; pass nil to disable
// recurring runs, run history and metrics respectively.
func NewCatalogSync(
	cfg domain.ProviderConfig,
	connector driven.CatalogConnector,
	mapper driven.EntityMapper,
	scheduler driven.TaskScheduler,
	runs driven.SyncRunStore,
	observer driven.SyncObserver,
) *CatalogSync {
	return &CatalogSync{
		provider:  cfg.Name,
		schedule:  cfg.Schedule,
		connector: connector,
		mapper:    mapper,
		scheduler: scheduler,
		runs:      runs,
		observer:  observer,
		state:     domain.SyncIdle,
	}
}

// ProviderName returns the provider's stable name.
func (s *CatalogSync) ProviderName() string {
	return s.provider
}

// Connect stores the destination connection and registers the recurring
// run with the scheduler. The first run is requested immediately.
func (s *CatalogSync) Connect(ctx context.Context, conn driven.EntityProviderConnection) error {
	if conn == nil {
		return fmt.Errorf("%w: nil connection", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	s.conn = conn
	s.state = domain.SyncConnecting
	s.mu.Unlock()

	defer s.leaveConnecting()

	if s.scheduler == nil {
		logger.Debug("%s: connected without scheduler", s.provider)
		return nil
	}

	task := domain.TaskDefinition{
		ID:             s.provider,
		Name:           "Catalog sync (" + s.provider + ")",
		Schedule:       s.schedule,
		RunImmediately: true,
		Run:            s.Run,
	}
	if err := s.scheduler.Schedule(ctx, task); err != nil {
		return fmt.Errorf("schedule %s: %w", s.provider, err)
	}

	logger.Info("%s: scheduled %q", s.provider, s.schedule.Cron)
	return nil
}

// Run performs one full pass and returns the number of entities submitted.
func (s *CatalogSync) Run(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.conn == nil {
		s.mu.Unlock()
		return 0, domain.ErrNotConnected
	}
	if s.state == domain.SyncRunning {
		s.mu.Unlock()
		return 0, domain.ErrSyncInProgress
	}
	conn := s.conn
	s.state = domain.SyncRunning
	s.pages = 0
	s.mapped = 0
	s.mu.Unlock()

	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Provider:  s.provider,
		State:     domain.SyncRunning,
		StartedAt: time.Now(),
	}

	logger.Info("%s: starting sync run %s", s.provider, run.ID)

	entities, err := s.collect(ctx, run)
	if err == nil {
		mutation := domain.NewFullMutation(s.provider, entities)
		if applyErr := conn.ApplyMutation(ctx, mutation); applyErr != nil {
			err = &domain.MutationError{
				LocationKey: s.provider,
				Entities:    len(entities),
				Err:         applyErr,
			}
		} else {
			run.Entities = len(entities)
		}
	}

	s.finish(ctx, run, err)
	if err != nil {
		return 0, err
	}
	return run.Entities, nil
}

// Status returns a snapshot of the pipeline state.
func (s *CatalogSync) Status() driving.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := driving.SyncStatus{
		Provider:       s.provider,
		State:          s.state,
		Connected:      s.conn != nil,
		PagesFetched:   s.pages,
		EntitiesMapped: s.mapped,
	}
	if s.lastRun != nil {
		last := *s.lastRun
		status.LastRun = &last
	}
	return status
}

// collect drains the connector and maps every record in page order.
func (s *CatalogSync) collect(ctx context.Context, run *domain.SyncRun) ([]domain.Entity, error) {
	pagesCh, errsCh := s.connector.Pages(ctx)
	entities := make([]domain.Entity, 0)

	for pagesCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if fc, done := driven.IsFetchComplete(err); done {
				logger.Debug("%s: fetch complete after %d pages (truncated=%t)", s.provider, fc.Pages, fc.Truncated)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", s.provider, err)
			}

		case page, ok := <-pagesCh:
			if !ok {
				pagesCh = nil
				continue
			}
			entities = s.mapPage(page, run, entities)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entities, nil
}

// mapPage maps one page, appending produced entities and dropping the rest.
func (s *CatalogSync) mapPage(page domain.RawPage, run *domain.SyncRun, entities []domain.Entity) []domain.Entity {
	run.Pages++
	run.Records += len(page.Records)
	if s.observer != nil {
		s.observer.PageFetched(s.provider, len(page.Records))
	}

	mapped := 0
	for i, raw := range page.Records {
		entity, err := s.mapper.Map(raw)
		if err != nil {
			logger.Warn("%s: dropping record %d at offset %d: %v", s.provider, i, page.Offset, err)
			s.skip(run, SkipReasonUndecodable)
			continue
		}
		if entity == nil {
			logger.Warn("%s: dropping record %d at offset %d: no name", s.provider, i, page.Offset)
			s.skip(run, SkipReasonUnnamed)
			continue
		}
		entities = append(entities, *entity)
		mapped++
	}

	s.mu.Lock()
	s.pages++
	s.mapped += mapped
	s.mu.Unlock()

	logger.Debug("%s: page at offset %d mapped %d of %d records", s.provider, page.Offset, mapped, len(page.Records))
	return entities
}

func (s *CatalogSync) skip(run *domain.SyncRun, reason string) {
	run.Skipped++
	if s.observer != nil {
		s.observer.RecordSkipped(s.provider, reason)
	}
}

// finish records the outcome and returns the state machine to idle.
func (s *CatalogSync) finish(ctx context.Context, run *domain.SyncRun, err error) {
	run.EndedAt = time.Now()
	if err != nil {
		run.State = domain.SyncFailed
		run.Error = err.Error()
		logger.Error("%s: sync run %s failed: %v", s.provider, run.ID, err)
	} else {
		run.State = domain.SyncSucceeded
		logger.Info("%s: sync run %s submitted %d entities (%d pages, %d skipped) in %s",
			s.provider, run.ID, run.Entities, run.Pages, run.Skipped, run.Duration().Round(time.Millisecond))
	}

	s.mu.Lock()
	s.state = run.State
	last := *run
	s.lastRun = &last
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.RunFinished(s.provider, run.State, run.Entities, run.Duration())
	}

	if s.runs != nil {
		// Persist even when the run context is already cancelled.
		if saveErr := s.runs.Save(context.WithoutCancel(ctx), run); saveErr != nil {
			logger.Warn("%s: failed to record sync run %s: %v", s.provider, run.ID, saveErr)
		}
	}

	s.setState(domain.SyncIdle)
}

// leaveConnecting returns to Idle unless a run started meanwhile.
func (s *CatalogSync) leaveConnecting() {
	s.mu.Lock()
	if s.state == domain.SyncConnecting {
		s.state = domain.SyncIdle
	}
	s.mu.Unlock()
}

func (s *CatalogSync) setState(state domain.SyncState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
