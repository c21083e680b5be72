package driving

import (
	"context"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// MappingService manages key-to-source mappings.
type MappingService interface {
	// Add maps a key to a source. Returns domain.ErrAlreadyExists when
	// the pair is already mapped and domain.ErrNotFound when the source
	// does not exist.
	Add(ctx context.Context, key, sourceID string) error

	// List returns all mappings, optionally filtered by key.
	List(ctx context.Context, key string) ([]domain.Mapping, error)

	// Resolve returns the source IDs mapped to a key.
	Resolve(ctx context.Context, key string) ([]string, error)
}
