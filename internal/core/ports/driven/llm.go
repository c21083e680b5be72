package driven

import (
	"context"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// CompletionService produces language-model completions for an ordered
// sequence of conversation turns.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini)
//   - Groq or any other OpenAI-compatible API
type CompletionService interface {
	// StreamChat starts a streaming completion for the given turns.
	// The returned stream is consumed lazily; the caller must Close it.
	StreamChat(ctx context.Context, turns []domain.ConversationTurn) (CompletionStream, error)

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompletionStream is a lazy sequence of text deltas from the model.
// Recv blocks until the next delta arrives, giving the consumer natural
// backpressure over the upstream connection: nothing is read from the
// provider until the caller asks for it.
type CompletionStream interface {
	// Recv returns the next text delta. It returns io.EOF once the
	// upstream sequence is cleanly exhausted, and any other error if the
	// stream fails mid-way.
	Recv() (string, error)

	// Close releases the upstream stream. Safe to call more than once.
	Close() error
}
