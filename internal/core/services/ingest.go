package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docchat-labs/docchat/internal/chunker"
	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/ports/driving"
	"github.com/docchat-labs/docchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService coordinates chunk -> embed -> persist for one document.
// The parent source record is created first so chunks have an id to
// attach to; if anything after that fails, the record is deleted again
// (best-effort) so a failed ingestion never leaves a half-searchable
// document behind. This is a compensating transaction substituting for
// a real multi-row transaction across the store boundary.
type IngestService struct {
	sources driven.SourceStore
	vectors driven.VectorStore
	batcher *EmbedBatcher
}

// NewIngestService creates the ingestion coordinator.
func NewIngestService(
	sources driven.SourceStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		sources: sources,
		vectors: vectors,
		batcher: NewEmbedBatcher(embedder),
	}
}

// Ingest runs the full ingestion pipeline and returns the committed
// chunk count. A document chunking to nothing keeps its source record
// (valid but unsearchable) and commits zero chunks.
func (s *IngestService) Ingest(
	ctx context.Context, name, text string, opts driving.IngestOptions,
) (*driving.IngestResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: source name is required", domain.ErrInvalidInput)
	}

	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	delay := time.Duration(opts.BatchDelaySeconds) * time.Second
	if opts.BatchDelaySeconds == 0 {
		delay = DefaultBatchDelay
	}

	// Reject bad parameters before creating anything.
	if chunkSize < 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, chunkSize)
	}
	if batchSize < 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", domain.ErrInvalidInput, batchSize)
	}

	logger.Section("Ingestion")

	source := domain.Source{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sources.Create(ctx, source); err != nil {
		return nil, &domain.StoreError{Op: "create source", Err: err}
	}
	status := domain.JobPending
	logger.Debug("Created source %s (%s), job %s", source.ID, name, status)

	chunks, err := chunker.Split(source.ID, text, chunkSize)
	if err != nil {
		// Unreachable for positive sizes, but the splitter owns the rule.
		s.rollback(ctx, source.ID)
		return nil, err
	}

	if len(chunks) == 0 {
		logger.Info("Source %s has no usable chunks; keeping empty source record", source.ID)
		return &driving.IngestResult{SourceID: source.ID}, nil
	}
	logger.Debug("Split into %d chunks (window %d)", len(chunks), chunkSize)

	embedded, err := s.batcher.EmbedAll(ctx, chunks, batchSize, delay)
	if err != nil {
		status = domain.JobRolledBack
		s.rollback(ctx, source.ID)
		logger.Debug("Job for source %s is %s", source.ID, status)
		return nil, err
	}
	status = domain.JobPartiallyEmbedded
	logger.Debug("Embedded %d chunks, job %s", len(embedded), status)

	if err := s.vectors.InsertChunks(ctx, embedded); err != nil {
		status = domain.JobRolledBack
		s.rollback(ctx, source.ID)
		logger.Debug("Job for source %s is %s", source.ID, status)
		return nil, &domain.StoreError{Op: "insert chunks", Err: err}
	}
	status = domain.JobCommitted
	logger.Info("Committed %d chunks for source %s, job %s", len(embedded), source.ID, status)

	// Mapping keys are attached after the commit and never fail the
	// ingestion; the document is already searchable by id.
	mapped := 0
	for _, key := range opts.MappingKeys {
		mapping := domain.Mapping{Key: key, SourceID: source.ID, CreatedAt: time.Now().UTC()}
		if err := s.sources.AddMapping(ctx, mapping); err != nil {
			logger.Warn("Mapping %s -> %s failed: %v", key, source.ID, err)
			continue
		}
		mapped++
	}

	return &driving.IngestResult{
		SourceID:     source.ID,
		ChunksStored: len(embedded),
		KeysMapped:   mapped,
	}, nil
}

// rollback removes the source record created at job start, plus any
// chunk rows for stores that do not cascade deletes. Cleanup is
// best-effort: a cleanup failure is logged so the caller still sees the
// original error. It runs even when the request context was cancelled.
func (s *IngestService) rollback(ctx context.Context, sourceID string) {
	cleanupCtx := context.WithoutCancel(ctx)

	if err := s.vectors.DeleteBySource(cleanupCtx, sourceID); err != nil {
		logger.Warn("Cleanup of chunks for source %s failed: %v", sourceID, err)
	}
	if err := s.sources.Delete(cleanupCtx, sourceID); err != nil {
		logger.Warn("Cleanup of source %s failed: %v", sourceID, err)
	}
}
