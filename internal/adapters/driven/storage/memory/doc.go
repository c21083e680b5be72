// Package memory provides in-memory implementations of the storage
// ports. They back tests and let the pipeline run without a database.
package memory
