package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/ports/driving"
	"github.com/docchat-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService composes query embedding, retrieval, prompt assembly, the
// completion call and the stream relay into one Answer operation.
type ChatService struct {
	embedder    driven.EmbeddingService
	completions driven.CompletionService
	sources     driven.SourceStore
	messages    driven.MessageStore
	retriever   *Retriever

	instructions string
	topK         int
}

// ChatOption configures the chat service.
type ChatOption func(*ChatService)

// WithInstructions overrides the system turn template. The template
// must contain exactly one %s verb for the retrieved context.
func WithInstructions(instructions string) ChatOption {
	return func(s *ChatService) {
		if instructions != "" {
			s.instructions = instructions
		}
	}
}

// WithTopK sets how many matches are retrieved per question.
func WithTopK(k int) ChatOption {
	return func(s *ChatService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewChatService creates the answer pipeline.
func NewChatService(
	embedder driven.EmbeddingService,
	completions driven.CompletionService,
	vectors driven.VectorStore,
	sources driven.SourceStore,
	messages driven.MessageStore,
	opts ...ChatOption,
) *ChatService {
	s := &ChatService{
		embedder:     embedder,
		completions:  completions,
		sources:      sources,
		messages:     messages,
		retriever:    NewRetriever(vectors),
		instructions: DefaultInstructions,
		topK:         DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer streams the model's answer to w. On a mid-stream upstream
// failure the partial output already written stays on w and the error
// is a *domain.StreamError; the conversation turns are only persisted
// after a cleanly completed answer.
func (s *ChatService) Answer(
	ctx context.Context, sessionID string, selector driving.SourceSelector, question string, w io.Writer,
) error {
	question = strings.TrimSpace(question)
	if sessionID == "" || question == "" {
		return fmt.Errorf("%w: session id and question are required", domain.ErrInvalidInput)
	}

	logger.Section("Answer")
	logger.Debug("Session %s: %q", sessionID, question)

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return &domain.ProviderError{Provider: "embedding", Err: err}
	}

	matches, err := s.retrieve(ctx, queryVector, selector)
	if err != nil {
		// No silent fallback to an empty-context answer: answering
		// without the retrieved context would break the "only answer
		// from context" contract.
		return err
	}
	logger.Debug("Retrieved %d match(es)", len(matches))

	history, err := s.messages.History(ctx, sessionID)
	if err != nil {
		return &domain.StoreError{Op: "load history", Err: err}
	}

	turns := Assemble(s.instructions, matches, history, question)

	stream, err := s.completions.StreamChat(ctx, turns)
	if err != nil {
		return &domain.ProviderError{Provider: "completion", Err: err}
	}

	var answer strings.Builder
	if err := Relay(io.MultiWriter(w, &answer), stream); err != nil {
		return err
	}

	s.persistTurns(ctx, sessionID, question, answer.String())
	return nil
}

// retrieve resolves the selector to sources and runs the similarity
// search. A mapping key that resolves to nothing is an error: the
// caller's identity has no documents to answer from. An entirely empty
// selector searches the whole corpus.
func (s *ChatService) retrieve(
	ctx context.Context, vector []float32, selector driving.SourceSelector,
) ([]domain.RetrievalMatch, error) {
	if selector.MappingKey != "" {
		ids, err := s.sources.ListMappings(ctx, selector.MappingKey)
		if err != nil {
			return nil, &domain.StoreError{Op: "list mappings", Err: err}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: key %s", domain.ErrNoSourcesMapped, selector.MappingKey)
		}
		logger.Debug("Key %s resolved to %d source(s)", selector.MappingKey, len(ids))
		return s.retriever.Retrieve(ctx, vector, ids, s.topK)
	}

	if len(selector.SourceIDs) > 0 {
		return s.retriever.Retrieve(ctx, vector, selector.SourceIDs, s.topK)
	}

	return s.retriever.RetrieveAny(ctx, vector, s.topK)
}

// persistTurns appends the exchanged pair to the session history.
// The answer already reached the caller, so persistence failures are
// logged rather than surfaced.
func (s *ChatService) persistTurns(ctx context.Context, sessionID, question, answer string) {
	ctx = context.WithoutCancel(ctx)

	userTurn := domain.ConversationTurn{Role: domain.RoleUser, Content: question}
	if err := s.messages.Append(ctx, sessionID, userTurn); err != nil {
		logger.Warn("Persisting user turn for session %s failed: %v", sessionID, err)
		return
	}

	assistantTurn := domain.ConversationTurn{Role: domain.RoleAssistant, Content: answer}
	if err := s.messages.Append(ctx, sessionID, assistantTurn); err != nil {
		logger.Warn("Persisting assistant turn for session %s failed: %v", sessionID, err)
	}
}
