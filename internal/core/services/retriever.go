package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/logger"
)

// DefaultTopK is the number of matches retrieved when the caller does
// not specify one.
const DefaultTopK = 5

// Retriever answers similarity queries against one or more sources.
type Retriever struct {
	vectors driven.VectorStore
}

// NewRetriever creates a retriever over the given vector store.
func NewRetriever(vectors driven.VectorStore) *Retriever {
	return &Retriever{vectors: vectors}
}

// Retrieve returns the top-k chunks most similar to the query vector
// across the given sources, ordered by descending similarity.
//
// With multiple sources, each source is searched for its own top-k and
// the concatenation is re-ranked globally. This under-represents a
// source with many near-identical strong chunks when another source has
// few, but a true global top-k would need a combined index; the
// approximation is kept deliberately.
//
// An empty sourceIDs yields an empty result without touching the store.
func (r *Retriever) Retrieve(
	ctx context.Context, vector []float32, sourceIDs []string, k int,
) ([]domain.RetrievalMatch, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	if len(sourceIDs) == 0 {
		return []domain.RetrievalMatch{}, nil
	}

	logger.Debug("Retrieving top %d from %d source(s)", k, len(sourceIDs))

	if len(sourceIDs) == 1 {
		matches, err := r.vectors.SimilaritySearch(ctx, vector, sourceIDs[0], k)
		if err != nil {
			return nil, &domain.RetrievalError{Err: fmt.Errorf("source %s: %w", sourceIDs[0], err)}
		}
		return truncate(matches, k), nil
	}

	// Searches are ordered, so source position is a stable tie-break key.
	position := make(map[string]int, len(sourceIDs))
	var all []domain.RetrievalMatch
	for i, id := range sourceIDs {
		position[id] = i

		matches, err := r.vectors.SimilaritySearch(ctx, vector, id, k)
		if err != nil {
			return nil, &domain.RetrievalError{Err: fmt.Errorf("source %s: %w", id, err)}
		}
		all = append(all, matches...)
	}

	// Similarity alone does not define a total order; break ties by
	// source position, then chunk ordinal, for reproducible results.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Similarity != all[j].Similarity {
			return all[i].Similarity > all[j].Similarity
		}
		if position[all[i].SourceID] != position[all[j].SourceID] {
			return position[all[i].SourceID] < position[all[j].SourceID]
		}
		return all[i].Ordinal < all[j].Ordinal
	})

	return truncate(all, k), nil
}

// RetrieveAny searches across all stored sources with a single
// unfiltered similarity query. Used when the caller names no sources at
// all (a session chatting over the whole corpus).
func (r *Retriever) RetrieveAny(ctx context.Context, vector []float32, k int) ([]domain.RetrievalMatch, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	matches, err := r.vectors.SimilaritySearch(ctx, vector, "", k)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	return truncate(matches, k), nil
}

func truncate(matches []domain.RetrievalMatch, k int) []domain.RetrievalMatch {
	if len(matches) > k {
		return matches[:k]
	}
	return matches
}
