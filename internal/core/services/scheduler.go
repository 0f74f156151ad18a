package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/catalog-ingest/internal/logger"
)

// Ensure Scheduler implements both sides of the scheduling contract.
var (
	_ driven.TaskScheduler = (*Scheduler)(nil)
	_ driving.Scheduler    = (*Scheduler)(nil)
)

// Scheduler runs registered tasks on cron schedules.
// Overlapping invocations of one task ID are skipped, even across
// re-registration, and a panicking task is recovered and logged.
// Task state and history go to the optional store.
type Scheduler struct {
	cron  *cron.Cron
	store driven.SchedulerStore

	mu      sync.Mutex
	entries map[string]scheduledEntry
	guards  map[string]*sync.Mutex
	pending []cron.Job
	running bool
	stopped bool
	baseCtx context.Context
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

type scheduledEntry struct {
	id   cron.EntryID
	task domain.TaskDefinition
}

// NewScheduler creates a scheduler. The store may be nil.
func NewScheduler(store driven.SchedulerStore) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(logger.CronLogger{})),
		store:   store,
		entries: make(map[string]scheduledEntry),
		guards:  make(map[string]*sync.Mutex),
		baseCtx: context.Background(),
	}
}

// Schedule registers a task, replacing any task with the same ID.
func (s *Scheduler) Schedule(ctx context.Context, task domain.TaskDefinition) error {
	if task.ID == "" || task.Run == nil {
		return fmt.Errorf("%w: task needs an id and a function", domain.ErrInvalidInput)
	}

	schedule, err := cron.ParseStandard(task.Schedule.Cron)
	if err != nil {
		return fmt.Errorf("%w: schedule %q: %w", domain.ErrInvalidInput, task.Schedule.Cron, err)
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return domain.ErrSchedulerStopped
	}
	guard, ok := s.guards[task.ID]
	if !ok {
		guard = &sync.Mutex{}
		s.guards[task.ID] = guard
	}
	job := cron.NewChain(cron.Recover(logger.CronLogger{})).Then(cron.FuncJob(func() {
		// The guard outlives the cron entry, so a replaced task cannot
		// overlap a run of its predecessor.
		if !guard.TryLock() {
			logger.Debug("scheduler: %s still running, skipping", task.ID)
			return
		}
		defer guard.Unlock()
		s.execute(task)
	}))
	if existing, ok := s.entries[task.ID]; ok {
		s.cron.Remove(existing.id)
	}
	s.entries[task.ID] = scheduledEntry{id: s.cron.Schedule(schedule, job), task: task}
	if task.RunImmediately {
		if s.running {
			s.launch(job)
		} else {
			s.pending = append(s.pending, job)
		}
	}
	s.mu.Unlock()

	if err := s.saveTask(ctx, task, schedule.Next(time.Now())); err != nil {
		logger.Warn("scheduler: failed to save task %s: %v", task.ID, err)
	}

	logger.Debug("scheduler: registered %s on %q", task.ID, task.Schedule.Cron)
	return nil
}

// Unschedule removes a task. Unknown IDs are ignored.
func (s *Scheduler) Unschedule(taskID string) {
	s.mu.Lock()
	entry, ok := s.entries[taskID]
	if ok {
		s.cron.Remove(entry.id)
		delete(s.entries, taskID)
	}
	s.mu.Unlock()

	if !ok || s.store == nil {
		return
	}

	err := s.store.SetEnabled(context.Background(), taskID, false)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("scheduler: failed to disable task %s: %v", taskID, err)
	}
}

// Start begins running scheduled tasks. It blocks until ctx is cancelled
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	if s.stopped {
		s.mu.Unlock()
		return domain.ErrSchedulerStopped
	}
	s.running = true
	s.baseCtx = ctx
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.cron.Start()
	for _, job := range s.pending {
		s.launch(job)
	}
	s.pending = nil
	s.mu.Unlock()

	logger.Info("scheduler: started with %d task(s)", len(s.Entries()))

	select {
	case <-ctx.Done():
		//nolint:errcheck // Stop never fails
		s.Stop()
		return ctx.Err()
	case <-stopCh:
		return nil
	}
}

// Stop halts the schedule and waits for running tasks to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	wasRunning := s.running
	s.running = false
	if wasRunning {
		close(s.stopCh)
	}
	s.mu.Unlock()

	if wasRunning {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()

	logger.Debug("scheduler: stopped")
	return nil
}

// Entries returns the registered tasks with their next activation time.
func (s *Scheduler) Entries() []domain.ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]domain.ScheduledTask, 0, len(s.entries))
	for id, entry := range s.entries {
		tasks = append(tasks, domain.ScheduledTask{
			ID:      id,
			Name:    entry.task.Name,
			Cron:    entry.task.Schedule.Cron,
			NextRun: s.cron.Entry(entry.id).Next,
			Enabled: true,
		})
	}
	return tasks
}

// launch runs a job outside the cron loop. Caller holds s.mu.
func (s *Scheduler) launch(job cron.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()
}

// execute runs one invocation of a task and records its result.
func (s *Scheduler) execute(task domain.TaskDefinition) {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	if task.Schedule.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Schedule.Timeout)
		defer cancel()
	}

	result := &domain.TaskResult{
		TaskID:    task.ID,
		StartedAt: time.Now(),
	}

	items, err := task.Run(ctx)

	result.EndedAt = time.Now()
	result.ItemsProcessed = items
	if err != nil {
		result.Error = err.Error()
		logger.Warn("scheduler: task %s failed: %v", task.ID, err)
	} else {
		result.Success = true
		logger.Debug("scheduler: task %s processed %d items", task.ID, items)
	}

	s.record(context.WithoutCancel(ctx), task, result)
}

// record persists task state and history.
func (s *Scheduler) record(ctx context.Context, task domain.TaskDefinition, result *domain.TaskResult) {
	if s.store == nil {
		return
	}

	stored, err := s.store.GetTask(ctx, task.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		stored = &domain.ScheduledTask{ID: task.ID, Name: task.Name, Cron: task.Schedule.Cron, Enabled: true}
	case err != nil:
		logger.Warn("scheduler: failed to load task %s: %v", task.ID, err)
		return
	}

	stored.LastRun = result.StartedAt
	stored.NextRun = s.nextRun(task.ID)
	if result.Success {
		stored.LastError = ""
		stored.LastSuccess = result.EndedAt
	} else {
		stored.LastError = result.Error
	}

	if saveErr := s.store.SaveTask(ctx, stored); saveErr != nil {
		logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
	}

	if recordErr := s.store.RecordResult(ctx, result, domain.HistoryRetention); recordErr != nil {
		logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
	}
}

// saveTask creates or updates the persisted task, keeping its history fields.
func (s *Scheduler) saveTask(ctx context.Context, task domain.TaskDefinition, next time.Time) error {
	if s.store == nil {
		return nil
	}

	stored, err := s.store.GetTask(ctx, task.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		stored = &domain.ScheduledTask{ID: task.ID}
	case err != nil:
		return err
	}
	stored.Name = task.Name
	stored.Cron = task.Schedule.Cron
	stored.NextRun = next
	stored.Enabled = true

	return s.store.SaveTask(ctx, stored)
}

func (s *Scheduler) nextRun(taskID string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[taskID]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(entry.id).Next
}
