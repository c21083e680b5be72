package driving

import "context"

// IngestOptions tunes the ingestion pipeline. Zero values select the
// service defaults.
type IngestOptions struct {
	// ChunkSize is the maximum chunk window size in runes.
	ChunkSize int

	// BatchSize is the number of embedding calls issued concurrently
	// per batch.
	BatchSize int

	// BatchDelaySeconds is the pause between consecutive batches,
	// respecting the embedding provider's rate ceiling.
	BatchDelaySeconds int

	// MappingKeys are caller identities (phone numbers) to map to the
	// new source after a successful commit. Mapping failures do not fail
	// the ingestion.
	MappingKeys []string
}

// IngestResult reports what a completed ingestion committed.
type IngestResult struct {
	// SourceID is the created source record.
	SourceID string

	// ChunksStored is the number of embedded chunks persisted.
	ChunksStored int

	// KeysMapped is the number of mapping keys attached.
	KeysMapped int
}

// IngestService turns raw document text into searchable embedded chunks.
type IngestService interface {
	// Ingest runs chunk -> embed -> persist for one document with
	// all-or-nothing commit semantics: on any embedding or persistence
	// failure the just-created source record is removed again and the
	// original error is returned.
	Ingest(ctx context.Context, name, text string, opts IngestOptions) (*IngestResult, error)
}
