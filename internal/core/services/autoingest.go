package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/ports/driving"
	"github.com/docchat-labs/docchat/internal/logger"
)

// AutoIngestor watches a directory and ingests documents dropped into
// it. Plain text files are read directly; files matching a parser's
// extensions go through that parser first.
type AutoIngestor struct {
	watcher  driven.FileWatcher
	parsers  []driven.DocumentParser
	ingestor driving.IngestService
	opts     driving.IngestOptions
}

// NewAutoIngestor creates an auto-ingestor. parsers may be empty, in
// which case every file is treated as plain text.
func NewAutoIngestor(
	watcher driven.FileWatcher,
	parsers []driven.DocumentParser,
	ingestor driving.IngestService,
	opts driving.IngestOptions,
) *AutoIngestor {
	return &AutoIngestor{
		watcher:  watcher,
		parsers:  parsers,
		ingestor: ingestor,
		opts:     opts,
	}
}

// Run watches dir until ctx is cancelled, ingesting each created or
// modified file. A failed ingestion is logged and watching continues;
// one bad file must not stop the watcher.
func (a *AutoIngestor) Run(ctx context.Context, dir string) error {
	events, err := a.watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	logger.Info("Watching %s for documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op == driven.FileRemoved {
				continue
			}
			a.ingestFile(ctx, event.Path)
		}
	}
}

func (a *AutoIngestor) ingestFile(ctx context.Context, path string) {
	text, err := a.extractText(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	result, err := a.ingestor.Ingest(ctx, filepath.Base(path), text, a.opts)
	if err != nil {
		logger.Warn("Ingesting %s failed: %v", path, err)
		return
	}
	logger.Info("Ingested %s as source %s (%d chunks)", path, result.SourceID, result.ChunksStored)
}

func (a *AutoIngestor) extractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, parser := range a.parsers {
		for _, supported := range parser.SupportedExtensions() {
			if ext == supported {
				return parser.ExtractText(path)
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
