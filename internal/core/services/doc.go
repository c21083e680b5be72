// Package services contains the core pipeline logic: chunk embedding,
// vector retrieval, prompt assembly, stream relay, and the ingestion
// and chat orchestrators. Services depend on driven ports only and hold
// no shared mutable state across requests.
package services
