package domain

import "time"

// Source is a document (or OCR'd image) identified by an id, owning zero
// or more stored chunks. A source with zero chunks is valid, just
// unsearchable.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Name is the human-readable name (file name, OCR_<image name>).
	Name string

	// CreatedAt is when the source record was created.
	CreatedAt time.Time
}

// Mapping links a caller identity key (phone number, session key) to a
// source. The relation is many-to-many: one key can map to several
// sources and one source can be reachable from several keys.
type Mapping struct {
	// Key is the caller identity, e.g. a phone number.
	Key string

	// SourceID is the mapped source.
	SourceID string

	// CreatedAt is when the mapping was created.
	CreatedAt time.Time
}

// Ingestion job states. A job is owned exclusively by the ingestion
// coordinator for the duration of a single Ingest call; no job state
// survives past it.
const (
	JobPending           = "pending"
	JobPartiallyEmbedded = "partially-embedded"
	JobCommitted         = "committed"
	JobRolledBack        = "rolled-back"
)
