package driven

import (
	"context"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// VectorStore persists embedded chunks and answers similarity queries.
// The index's internal implementation (exact scan, ANN) is the
// adapter's concern; the core only consumes this narrow interface.
type VectorStore interface {
	// InsertChunks stores all rows in a single operation. Either all
	// rows are persisted or none are.
	InsertChunks(ctx context.Context, chunks []domain.EmbeddedChunk) error

	// SimilaritySearch returns up to k stored chunks most similar to the
	// query vector, ordered by descending similarity. An empty sourceID
	// searches across all sources; a non-empty one restricts the search
	// to that source.
	SimilaritySearch(ctx context.Context, vector []float32, sourceID string, k int) ([]domain.RetrievalMatch, error)

	// DeleteBySource removes all chunk rows belonging to a source.
	DeleteBySource(ctx context.Context, sourceID string) error
}
