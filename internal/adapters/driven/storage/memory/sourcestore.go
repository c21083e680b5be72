package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu       sync.RWMutex
	sources  map[string]domain.Source
	mappings []domain.Mapping
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.Source),
	}
}

// Create stores a new source record.
func (s *SourceStore) Create(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[source.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.sources[source.ID] = source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// List returns all sources, newest first.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		result = append(result, source)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a source and its mappings.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)

	kept := s.mappings[:0]
	for _, m := range s.mappings {
		if m.SourceID != id {
			kept = append(kept, m)
		}
	}
	s.mappings = kept
	return nil
}

// AddMapping links a key to a source.
func (s *SourceStore) AddMapping(_ context.Context, mapping domain.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.mappings {
		if m.Key == mapping.Key && m.SourceID == mapping.SourceID {
			return domain.ErrAlreadyExists
		}
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now().UTC()
	}
	s.mappings = append(s.mappings, mapping)
	return nil
}

// ListMappings returns the source IDs mapped to the key, in creation
// order.
func (s *SourceStore) ListMappings(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, m := range s.mappings {
		if m.Key == key {
			ids = append(ids, m.SourceID)
		}
	}
	return ids, nil
}

// ListAllMappings returns every mapping, newest first.
func (s *SourceStore) ListAllMappings(_ context.Context) ([]domain.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Mapping, len(s.mappings))
	copy(result, s.mappings)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
