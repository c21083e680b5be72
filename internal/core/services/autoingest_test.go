package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/ports/driving"
)

// fakeWatcher feeds canned events through a channel.
type fakeWatcher struct {
	events   chan driven.FileEvent
	watchErr error
	dir      string
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan driven.FileEvent, 8)}
}

func (w *fakeWatcher) Watch(_ context.Context, dir string) (<-chan driven.FileEvent, error) {
	if w.watchErr != nil {
		return nil, w.watchErr
	}
	w.dir = dir
	return w.events, nil
}

func (w *fakeWatcher) Close() error {
	close(w.events)
	return nil
}

// recordingIngestor implements driving.IngestService and records names.
type recordingIngestor struct {
	mu        sync.Mutex
	names     []string
	texts     []string
	ingestErr error
}

func (r *recordingIngestor) Ingest(
	_ context.Context, name, text string, _ driving.IngestOptions,
) (*driving.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ingestErr != nil {
		return nil, r.ingestErr
	}
	r.names = append(r.names, name)
	r.texts = append(r.texts, text)
	return &driving.IngestResult{SourceID: "src", ChunksStored: 1}, nil
}

func (r *recordingIngestor) ingested() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// upperParser uppercases .doc files, standing in for a real extractor.
type upperParser struct{}

func (upperParser) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "PARSED:" + string(data), nil
}

func (upperParser) SupportedExtensions() []string { return []string{".doc"} }

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runUntilClosed(t *testing.T, a *AutoIngestor, dir string) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background(), dir) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestAutoIngest_PlainTextFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "note.txt", "hello world")

	watcher := newFakeWatcher()
	ingestor := &recordingIngestor{}
	a := NewAutoIngestor(watcher, nil, ingestor, driving.IngestOptions{})

	watcher.events <- driven.FileEvent{Path: path, Op: driven.FileCreated}
	require.NoError(t, watcher.Close())

	runUntilClosed(t, a, dir)

	assert.Equal(t, []string{"note.txt"}, ingestor.ingested())
	assert.Equal(t, "hello world", ingestor.texts[0])
	assert.Equal(t, dir, watcher.dir)
}

func TestAutoIngest_ParserRouting(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTempFile(t, dir, "memo.doc", "body")
	txtPath := writeTempFile(t, dir, "memo.txt", "plain")

	watcher := newFakeWatcher()
	ingestor := &recordingIngestor{}
	a := NewAutoIngestor(watcher, []driven.DocumentParser{upperParser{}}, ingestor, driving.IngestOptions{})

	watcher.events <- driven.FileEvent{Path: docPath, Op: driven.FileCreated}
	watcher.events <- driven.FileEvent{Path: txtPath, Op: driven.FileModified}
	require.NoError(t, watcher.Close())

	runUntilClosed(t, a, dir)

	require.Equal(t, []string{"memo.doc", "memo.txt"}, ingestor.ingested())
	assert.Equal(t, "PARSED:body", ingestor.texts[0])
	assert.Equal(t, "plain", ingestor.texts[1])
}

func TestAutoIngest_SkipsRemovals(t *testing.T) {
	dir := t.TempDir()

	watcher := newFakeWatcher()
	ingestor := &recordingIngestor{}
	a := NewAutoIngestor(watcher, nil, ingestor, driving.IngestOptions{})

	watcher.events <- driven.FileEvent{Path: filepath.Join(dir, "gone.txt"), Op: driven.FileRemoved}
	require.NoError(t, watcher.Close())

	runUntilClosed(t, a, dir)

	assert.Empty(t, ingestor.ingested())
}

func TestAutoIngest_BadFileDoesNotStopWatching(t *testing.T) {
	dir := t.TempDir()
	goodPath := writeTempFile(t, dir, "good.txt", "fine")

	watcher := newFakeWatcher()
	ingestor := &recordingIngestor{}
	a := NewAutoIngestor(watcher, nil, ingestor, driving.IngestOptions{})

	watcher.events <- driven.FileEvent{Path: filepath.Join(dir, "missing.txt"), Op: driven.FileCreated}
	watcher.events <- driven.FileEvent{Path: goodPath, Op: driven.FileCreated}
	require.NoError(t, watcher.Close())

	runUntilClosed(t, a, dir)

	assert.Equal(t, []string{"good.txt"}, ingestor.ingested())
}

func TestAutoIngest_WatchError(t *testing.T) {
	watcher := newFakeWatcher()
	watcher.watchErr = errors.New("inotify limit")
	a := NewAutoIngestor(watcher, nil, &recordingIngestor{}, driving.IngestOptions{})

	err := a.Run(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "inotify limit")
}

func TestAutoIngest_ContextCancel(t *testing.T) {
	watcher := newFakeWatcher()
	a := NewAutoIngestor(watcher, nil, &recordingIngestor{}, driving.IngestOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, t.TempDir()) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
