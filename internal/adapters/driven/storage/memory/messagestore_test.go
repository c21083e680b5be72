package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

func TestMessageStore_AppendAndHistory(t *testing.T) {
	store := NewMessageStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess", domain.ConversationTurn{Role: domain.RoleUser, Content: "hi"}))
	require.NoError(t, store.Append(ctx, "sess", domain.ConversationTurn{Role: domain.RoleAssistant, Content: "hello"}))

	history, err := store.History(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
}

func TestMessageStore_UnknownSessionIsEmpty(t *testing.T) {
	store := NewMessageStore()

	history, err := store.History(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMessageStore_SessionsAreIsolated(t *testing.T) {
	store := NewMessageStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", domain.ConversationTurn{Role: domain.RoleUser, Content: "for a"}))

	history, err := store.History(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, history)
}
