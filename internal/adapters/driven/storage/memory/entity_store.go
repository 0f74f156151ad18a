package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// Ensure EntityStore implements the interface.
var _ driven.EntityStore = (*EntityStore)(nil)

// EntityStore is an in-memory implementation of driven.EntityStore.
type EntityStore struct {
	mu        sync.RWMutex
	providers map[string][]domain.DeferredEntity
	mutations int
}

// NewEntityStore creates an empty in-memory entity store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		providers: make(map[string][]domain.DeferredEntity),
	}
}

// ApplyMutation replaces the entity set of every location key named by the
// mutation.
func (s *EntityStore) ApplyMutation(_ context.Context, mutation domain.Mutation) error {
	if mutation.Type != domain.MutationFull {
		return fmt.Errorf("%w: unsupported mutation type %q", domain.ErrInvalidInput, mutation.Type)
	}

	next := make(map[string][]domain.DeferredEntity)
	if mutation.LocationKey != "" {
		next[mutation.LocationKey] = []domain.DeferredEntity{}
	}
	for _, d := range mutation.Entities {
		next[d.LocationKey] = append(next[d.LocationKey], d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entities := range next {
		if len(entities) == 0 {
			delete(s.providers, key)
			continue
		}
		s.providers[key] = entities
	}
	s.mutations++
	return nil
}

// List returns entities for a location key in submission order.
// An empty location key lists every provider, grouped by key.
func (s *EntityStore) List(_ context.Context, locationKey string) ([]domain.DeferredEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if locationKey != "" {
		return append([]domain.DeferredEntity(nil), s.providers[locationKey]...), nil
	}

	var result []domain.DeferredEntity
	for _, key := range s.sortedKeys() {
		result = append(result, s.providers[key]...)
	}
	return result, nil
}

// Get returns one entity by its reference string.
func (s *EntityStore) Get(_ context.Context, ref string) (*domain.DeferredEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.sortedKeys() {
		for _, d := range s.providers[key] {
			if d.Entity.Ref() == ref {
				found := d
				return &found, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// Count returns the number of entities for a location key, or across all
// keys when locationKey is empty.
func (s *EntityStore) Count(_ context.Context, locationKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if locationKey != "" {
		return len(s.providers[locationKey]), nil
	}
	total := 0
	for _, entities := range s.providers {
		total += len(entities)
	}
	return total, nil
}

// Mutations returns how many mutations have been applied.
func (s *EntityStore) Mutations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mutations
}

func (s *EntityStore) sortedKeys() []string {
	keys := make([]string, 0, len(s.providers))
	for k := range s.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
