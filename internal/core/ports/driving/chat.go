package driving

import (
	"context"
	"io"
)

// SourceSelector names the sources a question should be answered from.
// Exactly one field should be set: explicit source IDs, or a mapping
// key that resolves to sources through the mapping table.
type SourceSelector struct {
	// SourceIDs restricts retrieval to these sources.
	SourceIDs []string

	// MappingKey resolves to sources via the key-to-source mappings
	// (e.g. a phone number).
	MappingKey string
}

// ChatService answers user questions from retrieved document context,
// streaming the model's answer token-by-token.
type ChatService interface {
	// Answer retrieves context for the question, assembles the prompt
	// with the session's history, and relays the model's token stream to
	// w. A nil error means the answer completed; any mid-stream failure
	// surfaces as a *domain.StreamError after the partial output.
	Answer(ctx context.Context, sessionID string, selector SourceSelector, question string, w io.Writer) error
}
