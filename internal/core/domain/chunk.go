package domain

// Chunk is a bounded-length contiguous slice of a source document's text.
// Ordinal is the chunk's position within the source after empty windows
// have been filtered out; insertion order is the only meaningful order.
type Chunk struct {
	// SourceID links to the Source that owns this chunk.
	SourceID string

	// Ordinal is the 0-based position within the source document.
	Ordinal int

	// Text is the trimmed chunk content.
	Text string
}

// EmbeddedChunk is a Chunk plus its embedding vector.
// The vector length is fixed across the whole system and is determined
// by the embedding provider. Never mutated after creation.
type EmbeddedChunk struct {
	Chunk

	// Vector is the embedding produced for Text.
	Vector []float32
}

// RetrievalMatch is a single similarity-search hit. Matches are produced
// fresh per query and never persisted.
type RetrievalMatch struct {
	// ChunkID is the stored chunk row that matched.
	ChunkID string

	// SourceID is the source the chunk belongs to.
	SourceID string

	// Ordinal is the chunk's position within its source.
	Ordinal int

	// Text is the chunk content.
	Text string

	// Similarity is the cosine similarity score in [0, 1].
	Similarity float64
}
