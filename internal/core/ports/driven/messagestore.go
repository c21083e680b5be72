package driven

import (
	"context"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// MessageStore is the durable record of conversation turns per session.
// The core consumes history read-only when assembling prompts and
// appends the user/assistant pair after a cleanly completed answer.
type MessageStore interface {
	// History returns the session's turns in chronological order.
	// An unknown session yields an empty history, not an error.
	History(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error)

	// Append stores one turn at the end of the session's history.
	Append(ctx context.Context, sessionID string, turn domain.ConversationTurn) error
}
