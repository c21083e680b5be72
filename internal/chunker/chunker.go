// Package chunker splits raw document text into bounded-size chunks.
//
// Windows are measured in runes, not bytes, so multi-byte characters are
// never split in the middle. Windows are consecutive and non-overlapping.
package chunker

import (
	"fmt"
	"strings"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// DefaultChunkSize is the default window size in runes.
const DefaultChunkSize = 1500

// Split divides text into consecutive windows of at most size runes,
// trims each window of surrounding whitespace and drops windows that
// trim to nothing. Ordinals are assigned after filtering, so they are
// always consecutive starting at 0.
//
// Split is pure and deterministic: identical input yields an identical
// chunk sequence, which keeps re-ingestion idempotent.
func Split(sourceID, text string, size int) ([]domain.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}

	runes := []rune(text)

	chunks := make([]domain.Chunk, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		window := strings.TrimSpace(string(runes[start:end]))
		if window == "" {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			SourceID: sourceID,
			Ordinal:  len(chunks),
			Text:     window,
		})
	}

	return chunks, nil
}
