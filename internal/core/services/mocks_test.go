package services

import (
	"context"
	"io"
	"sync"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
)

// mockEmbedder implements driven.EmbeddingService for testing. It
// records every call and can be told to fail on the nth call (1-based).
type mockEmbedder struct {
	mu         sync.Mutex
	calls      int
	inFlight   int
	maxSeen    int // highest observed concurrent calls
	failOnCall int
	failErr    error
	vector     []float32
	dims       int
}

func (m *mockEmbedder) Embed(ctx context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.failOnCall > 0 && call == m.failOnCall {
		return nil, m.failErr
	}

	if m.vector != nil {
		return m.vector, nil
	}
	vec := make([]float32, m.Dimensions())
	vec[0] = 1
	return vec, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Close() error      { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbedder) maxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxSeen
}

// mockVectorStore implements driven.VectorStore with canned per-source
// matches.
type mockVectorStore struct {
	mu        sync.Mutex
	bySource  map[string][]domain.RetrievalMatch
	searchErr error
	insertErr error
	searched  []string
	inserted  []domain.EmbeddedChunk
	deleted   []string
}

func (m *mockVectorStore) InsertChunks(_ context.Context, chunks []domain.EmbeddedChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, chunks...)
	return nil
}

func (m *mockVectorStore) SimilaritySearch(
	_ context.Context, _ []float32, sourceID string, k int,
) ([]domain.RetrievalMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searched = append(m.searched, sourceID)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	matches := m.bySource[sourceID]
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *mockVectorStore) DeleteBySource(_ context.Context, sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, sourceID)
	return nil
}

// mockStream implements driven.CompletionStream, yielding canned deltas
// and then either io.EOF or a configured error.
type mockStream struct {
	deltas []string
	err    error
	pos    int
	closed bool
}

func (m *mockStream) Recv() (string, error) {
	if m.pos < len(m.deltas) {
		delta := m.deltas[m.pos]
		m.pos++
		return delta, nil
	}
	if m.err != nil {
		return "", m.err
	}
	return "", io.EOF
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

// mockCompletion implements driven.CompletionService.
type mockCompletion struct {
	stream   *mockStream
	startErr error
	turns    []domain.ConversationTurn
}

func (m *mockCompletion) StreamChat(
	_ context.Context, turns []domain.ConversationTurn,
) (driven.CompletionStream, error) {
	m.turns = turns
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.stream, nil
}

func (m *mockCompletion) ModelName() string { return "mock-llm" }
func (m *mockCompletion) Close() error      { return nil }

// mockSourceStore implements driven.SourceStore over plain maps.
type mockSourceStore struct {
	mu         sync.Mutex
	sources    map[string]domain.Source
	mappings   []domain.Mapping
	createErr  error
	deleteErr  error
	mappingErr error
	listErr    error
	deleted    []string
}

func newMockSourceStore() *mockSourceStore {
	return &mockSourceStore{sources: make(map[string]domain.Source)}
}

func (m *mockSourceStore) Create(_ context.Context, source domain.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.sources[source.ID] = source
	return nil
}

func (m *mockSourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

func (m *mockSourceStore) List(_ context.Context) ([]domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Source, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSourceStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sources, id)
	return nil
}

func (m *mockSourceStore) AddMapping(_ context.Context, mapping domain.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mappingErr != nil {
		return m.mappingErr
	}
	for _, existing := range m.mappings {
		if existing.Key == mapping.Key && existing.SourceID == mapping.SourceID {
			return domain.ErrAlreadyExists
		}
	}
	m.mappings = append(m.mappings, mapping)
	return nil
}

func (m *mockSourceStore) ListMappings(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var ids []string
	for _, mapping := range m.mappings {
		if mapping.Key == key {
			ids = append(ids, mapping.SourceID)
		}
	}
	return ids, nil
}

func (m *mockSourceStore) ListAllMappings(_ context.Context) ([]domain.Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Mapping, len(m.mappings))
	copy(out, m.mappings)
	return out, nil
}

// mockMessageStore implements driven.MessageStore.
type mockMessageStore struct {
	mu         sync.Mutex
	history    map[string][]domain.ConversationTurn
	historyErr error
	appendErr  error
}

func newMockMessageStore() *mockMessageStore {
	return &mockMessageStore{history: make(map[string][]domain.ConversationTurn)}
}

func (m *mockMessageStore) History(_ context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history[sessionID], nil
}

func (m *mockMessageStore) Append(_ context.Context, sessionID string, turn domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.history[sessionID] = append(m.history[sessionID], turn)
	return nil
}
