package domain

// Conversation roles understood by completion providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one role-tagged message unit in a conversation.
// An ordered sequence of turns forms the prompt handed to the model.
type ConversationTurn struct {
	// Role is one of RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}
