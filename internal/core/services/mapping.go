package services

import (
	"context"
	"fmt"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/ports/driving"
)

// Ensure MappingService implements the interface.
var _ driving.MappingService = (*MappingService)(nil)

// MappingService manages the many-to-many key-to-source mappings that
// let a caller identity (phone number) reach its documents.
type MappingService struct {
	sources driven.SourceStore
}

// NewMappingService creates a mapping service.
func NewMappingService(sources driven.SourceStore) *MappingService {
	return &MappingService{sources: sources}
}

// Add maps a key to an existing source.
func (s *MappingService) Add(ctx context.Context, key, sourceID string) error {
	if key == "" || sourceID == "" {
		return fmt.Errorf("%w: key and source id are required", domain.ErrInvalidInput)
	}

	if _, err := s.sources.Get(ctx, sourceID); err != nil {
		return fmt.Errorf("source %s: %w", sourceID, err)
	}

	mapping := domain.Mapping{Key: key, SourceID: sourceID}
	if err := s.sources.AddMapping(ctx, mapping); err != nil {
		return fmt.Errorf("map %s -> %s: %w", key, sourceID, err)
	}
	return nil
}

// List returns mappings, filtered to a key when one is given.
func (s *MappingService) List(ctx context.Context, key string) ([]domain.Mapping, error) {
	all, err := s.sources.ListAllMappings(ctx)
	if err != nil {
		return nil, &domain.StoreError{Op: "list mappings", Err: err}
	}
	if key == "" {
		return all, nil
	}

	filtered := make([]domain.Mapping, 0, len(all))
	for _, m := range all {
		if m.Key == key {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// Resolve returns the source IDs mapped to a key.
func (s *MappingService) Resolve(ctx context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}

	ids, err := s.sources.ListMappings(ctx, key)
	if err != nil {
		return nil, &domain.StoreError{Op: "list mappings", Err: err}
	}
	return ids, nil
}
