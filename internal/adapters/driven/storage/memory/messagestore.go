package memory

import (
	"context"
	"sync"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
)

// Ensure MessageStore implements the interface.
var _ driven.MessageStore = (*MessageStore)(nil)

// MessageStore is an in-memory implementation of driven.MessageStore.
type MessageStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.ConversationTurn
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		sessions: make(map[string][]domain.ConversationTurn),
	}
}

// History returns the session's turns in chronological order.
func (s *MessageStore) History(_ context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	result := make([]domain.ConversationTurn, len(turns))
	copy(result, turns)
	return result, nil
}

// Append stores one turn at the end of the session's history.
func (s *MessageStore) Append(_ context.Context, sessionID string, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}
