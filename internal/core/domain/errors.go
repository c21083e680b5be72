package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSourcesMapped indicates a mapping key resolved to no sources.
	// Callers answering on behalf of a mapped identity need at least one
	// document to ground the answer in.
	ErrNoSourcesMapped = errors.New("no sources mapped")
)

// EmbeddingError indicates an embedding call failed mid-job. The whole
// ingestion fails; no partial vector set is ever returned or persisted.
type EmbeddingError struct {
	// Ordinal is the position of the chunk whose embedding failed.
	Ordinal int
	Err     error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding chunk %d: %v", e.Ordinal, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// RetrievalError indicates the underlying similarity-search capability
// failed. It is not retried by the retriever; retry policy belongs to
// the caller.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// StreamError indicates the upstream token stream failed after the
// response started. It lets callers distinguish "answer aborted
// mid-stream" from a clean close.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream aborted: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ProviderError wraps a failure from a remote capability (embedding,
// completion, OCR).
type ProviderError struct {
	// Provider names the failing capability, e.g. "embedding", "completion".
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StoreError wraps a failure from the persistence layer.
type StoreError struct {
	// Op names the failing operation, e.g. "insert chunks".
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
