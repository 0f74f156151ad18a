package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// entityStore implements driven.EntityStore.
type entityStore struct {
	store *Store
}

var _ driven.EntityStore = (*entityStore)(nil)

// ApplyMutation replaces every entity under the mutation's location keys
// with the batch, in a single transaction.
func (s *entityStore) ApplyMutation(ctx context.Context, mutation domain.Mutation) error {
	if mutation.Type != domain.MutationFull {
		return fmt.Errorf("%w: unsupported mutation type %q", domain.ErrInvalidInput, mutation.Type)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, key := range mutationLocationKeys(mutation) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entities WHERE location_key = ?", key); err != nil {
			return fmt.Errorf("clearing entities for %s: %w", key, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (location_key, ref, kind, name, position, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, d := range mutation.Entities {
		body, err := json.Marshal(d.Entity)
		if err != nil {
			return fmt.Errorf("marshalling entity %s: %w", d.Entity.Metadata.Name, err)
		}
		if _, err := stmt.ExecContext(ctx,
			d.LocationKey, d.Entity.Ref(), string(d.Entity.Kind), d.Entity.Metadata.Name,
			i, string(body), now); err != nil {
			return fmt.Errorf("inserting entity %s: %w", d.Entity.Metadata.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing mutation: %w", err)
	}
	return nil
}

// List returns entities for a location key ordered by insertion.
// An empty location key lists every provider.
func (s *entityStore) List(ctx context.Context, locationKey string) ([]domain.DeferredEntity, error) {
	query := "SELECT location_key, body FROM entities"
	args := []any{}
	if locationKey != "" {
		query += " WHERE location_key = ?"
		args = append(args, locationKey)
	}
	query += " ORDER BY location_key, position"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.DeferredEntity //nolint:prealloc // size unknown from query
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}

	return entities, nil
}

// Get returns the first entity with the given reference string.
func (s *entityStore) Get(ctx context.Context, ref string) (*domain.DeferredEntity, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT location_key, body FROM entities
		WHERE ref = ?
		ORDER BY location_key, position
		LIMIT 1
	`, ref)

	entity, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return entity, err
}

// Count returns the number of entities for a location key.
func (s *entityStore) Count(ctx context.Context, locationKey string) (int, error) {
	query := "SELECT COUNT(*) FROM entities"
	args := []any{}
	if locationKey != "" {
		query += " WHERE location_key = ?"
		args = append(args, locationKey)
	}

	var count int
	if err := s.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return count, nil
}

// mutationLocationKeys returns the distinct location keys a mutation replaces.
func mutationLocationKeys(mutation domain.Mutation) []string {
	seen := make(map[string]bool)
	var keys []string
	if mutation.LocationKey != "" {
		seen[mutation.LocationKey] = true
		keys = append(keys, mutation.LocationKey)
	}
	for _, d := range mutation.Entities {
		if !seen[d.LocationKey] {
			seen[d.LocationKey] = true
			keys = append(keys, d.LocationKey)
		}
	}
	return keys
}

// scanEntity scans a location key and JSON body into a deferred entity.
func scanEntity(row rowScanner) (*domain.DeferredEntity, error) {
	var locationKey, body string
	if err := row.Scan(&locationKey, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning entity: %w", err)
	}

	var entity domain.Entity
	if err := json.Unmarshal([]byte(body), &entity); err != nil {
		return nil, fmt.Errorf("unmarshalling entity: %w", err)
	}

	return &domain.DeferredEntity{Entity: entity, LocationKey: locationKey}, nil
}
