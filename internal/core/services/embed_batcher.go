package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/logger"
)

// Default batching parameters, sized for a 60-requests-per-minute
// embedding provider ceiling with a small buffer.
const (
	DefaultBatchSize  = 55
	DefaultBatchDelay = 61 * time.Second
)

// EmbedBatcher turns an ordered chunk sequence into embedded chunks,
// batch by batch. Calls within a batch run concurrently; batches are
// strictly ordered and paced so the provider's rate ceiling is
// respected. The whole job fails on the first bad embedding: no partial
// vector set is ever returned.
type EmbedBatcher struct {
	embedder driven.EmbeddingService
}

// NewEmbedBatcher creates a batcher over the given embedding service.
func NewEmbedBatcher(embedder driven.EmbeddingService) *EmbedBatcher {
	return &EmbedBatcher{embedder: embedder}
}

// EmbedAll embeds every chunk, preserving input order in the result.
// batchSize bounds the number of in-flight embedding calls; delay is
// the mandatory pause between consecutive batches (none before the
// first or after the last). Cancelling ctx aborts the in-flight batch
// and skips the rest.
func (b *EmbedBatcher) EmbedAll(
	ctx context.Context, chunks []domain.Chunk, batchSize int, delay time.Duration,
) ([]domain.EmbeddedChunk, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", domain.ErrInvalidInput, batchSize)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	// Token bucket with one token per delay interval: the first batch
	// starts immediately, every later batch waits out the delay. Batch
	// N+1 can never start before batch N completed and the delay
	// elapsed.
	var pacer *rate.Limiter
	if delay > 0 {
		pacer = rate.NewLimiter(rate.Every(delay), 1)
	}

	totalBatches := (len(chunks) + batchSize - 1) / batchSize
	embedded := make([]domain.EmbeddedChunk, len(chunks))

	for start := 0; start < len(chunks); start += batchSize {
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				return nil, err
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		logger.Debug("Embedding batch %d/%d (%d chunks)", start/batchSize+1, totalBatches, len(batch))

		if err := b.embedBatch(ctx, batch, embedded[start:end]); err != nil {
			return nil, err
		}
	}

	return embedded, nil
}

// embedBatch issues one embedding call per chunk concurrently and
// blocks until the whole batch settled. On failure the lowest failing
// ordinal is reported.
func (b *EmbedBatcher) embedBatch(ctx context.Context, batch []domain.Chunk, out []domain.EmbeddedChunk) error {
	var wg sync.WaitGroup
	errs := make([]error, len(batch))

	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			vector, err := b.embedder.Embed(ctx, batch[i].Text)
			if err != nil {
				errs[i] = err
				return
			}
			if want := b.embedder.Dimensions(); len(vector) != want {
				errs[i] = fmt.Errorf("expected %d-dimensional vector, got %d", want, len(vector))
				return
			}
			out[i] = domain.EmbeddedChunk{Chunk: batch[i], Vector: vector}
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return &domain.EmbeddingError{Ordinal: batch[i].Ordinal, Err: err}
		}
	}
	return nil
}
