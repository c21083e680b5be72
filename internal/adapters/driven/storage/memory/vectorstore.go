package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type vectorRow struct {
	id    string
	chunk domain.EmbeddedChunk
}

// VectorStore is an in-memory implementation of driven.VectorStore
// using an exact cosine-similarity scan.
type VectorStore struct {
	mu   sync.RWMutex
	rows []vectorRow
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// InsertChunks stores all rows. The in-memory store is single-writer
// per call, so the all-or-nothing contract holds trivially.
func (s *VectorStore) InsertChunks(_ context.Context, chunks []domain.EmbeddedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.rows = append(s.rows, vectorRow{id: uuid.NewString(), chunk: c})
	}
	return nil
}

// SimilaritySearch scans all rows (optionally restricted to a source)
// and returns the k most similar, descending.
func (s *VectorStore) SimilaritySearch(
	_ context.Context, vector []float32, sourceID string, k int,
) ([]domain.RetrievalMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []domain.RetrievalMatch
	for _, row := range s.rows {
		if sourceID != "" && row.chunk.SourceID != sourceID {
			continue
		}
		matches = append(matches, domain.RetrievalMatch{
			ChunkID:    row.id,
			SourceID:   row.chunk.SourceID,
			Ordinal:    row.chunk.Ordinal,
			Text:       row.chunk.Text,
			Similarity: cosineSimilarity(vector, row.chunk.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// DeleteBySource removes all rows belonging to a source.
func (s *VectorStore) DeleteBySource(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.chunk.SourceID != sourceID {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	return nil
}

// Len returns the number of stored rows. Useful for tests.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// cosineSimilarity computes the cosine similarity of two vectors,
// clamped to [0, 1]. Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if sim < 0 {
		return 0
	}
	return sim
}
