// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - SourceStore: source records and key-to-source mappings
//   - VectorStore: embedded chunk persistence and similarity search
//   - MessageStore: per-session conversation history
//
// Similarity search is an exact cosine scan performed in Go over the stored
// embedding blobs. That keeps the store dependency-free on the database side
// and is entirely adequate for the per-document corpus sizes this tool works
// with; a vector index would only pay off orders of magnitude later.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/docchat.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
