package driven

import (
	"context"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// SourceStore persists source records and key-to-source mappings.
type SourceStore interface {
	// Create stores a new source record.
	Create(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID. Returns domain.ErrNotFound when the
	// source does not exist.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Delete removes a source and, through the store's own integrity
	// rules, everything attached to it. Used by the ingestion
	// coordinator as the compensating cleanup step.
	Delete(ctx context.Context, id string) error

	// AddMapping links a key to a source. Returns domain.ErrAlreadyExists
	// when the (key, source) pair is already mapped.
	AddMapping(ctx context.Context, mapping domain.Mapping) error

	// ListMappings returns the IDs of all sources mapped to the key, in
	// mapping creation order.
	ListMappings(ctx context.Context, key string) ([]string, error)

	// ListAllMappings returns every mapping, newest first.
	ListAllMappings(ctx context.Context) ([]domain.Mapping, error)
}
