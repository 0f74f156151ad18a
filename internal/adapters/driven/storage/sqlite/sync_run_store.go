package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// syncRunStore implements driven.SyncRunStore.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

// Save stores a finished run. Saving the same ID again overwrites it.
func (s *syncRunStore) Save(ctx context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, provider, state, pages, records, entities, skipped, error, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			pages = excluded.pages,
			records = excluded.records,
			entities = excluded.entities,
			skipped = excluded.skipped,
			error = excluded.error,
			ended_at = excluded.ended_at
	`, run.ID, run.Provider, string(run.State),
		run.Pages, run.Records, run.Entities, run.Skipped,
		nullString(run.Error),
		formatTime(run.StartedAt),
		formatNullableTime(run.EndedAt))
	if err != nil {
		return fmt.Errorf("saving sync run: %w", err)
	}
	return nil
}

// List returns recent runs for a provider, most recent first.
// An empty provider lists runs of every provider.
func (s *syncRunStore) List(ctx context.Context, provider string, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = domain.HistoryRetention
	}

	query := `
		SELECT id, provider, state, pages, records, entities, skipped, error, started_at, ended_at
		FROM sync_runs`
	args := []any{}
	if provider != "" {
		query += " WHERE provider = ?"
		args = append(args, provider)
	}
	query += " ORDER BY started_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	return runs, nil
}

func scanSyncRun(rows *sql.Rows) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var state, startedAt string
	var errMsg, endedAt sql.NullString

	if err := rows.Scan(&run.ID, &run.Provider, &state,
		&run.Pages, &run.Records, &run.Entities, &run.Skipped,
		&errMsg, &startedAt, &endedAt); err != nil {
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	run.State = domain.SyncState(state)
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	run.StartedAt = parseTime(startedAt)
	run.EndedAt = parseNullableTime(endedAt)

	return &run, nil
}
