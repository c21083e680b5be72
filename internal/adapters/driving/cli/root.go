// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	embeddingopenai "github.com/docchat-labs/docchat/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/docchat-labs/docchat/internal/adapters/driven/llm/openai"
	"github.com/docchat-labs/docchat/internal/adapters/driven/ocr/mistral"
	"github.com/docchat-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/docchat-labs/docchat/internal/config"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/ports/driving"
	"github.com/docchat-labs/docchat/internal/core/services"
	"github.com/docchat-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

// cfg is the loaded configuration, available to all commands after
// PersistentPreRunE.
var cfg *config.Config

// Wired services. Commands go through these so tests can substitute
// fakes; nil means not built yet.
var (
	store          *sqlite.Store
	embedder       driven.EmbeddingService
	completions    driven.CompletionService
	ocrService     driven.OcrService
	ingestService  driving.IngestService
	chatService    driving.ChatService
	mappingService driving.MappingService
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat ingests documents into a local vector store and answers
questions about them with a retrieval-augmented language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cfg != nil {
			return nil
		}

		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose || cfg.Verbose {
			logger.SetVerbose(true)
		}
		logger.SetOutput(cmd.ErrOrStderr())
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. ctx cancellation stops long-running
// commands (chat streaming, watch).
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ensureStore opens the SQLite store on first use.
func ensureStore() (*sqlite.Store, error) {
	if store != nil {
		return store, nil
	}
	s, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	store = s
	return store, nil
}

// ensureEmbedder builds the embedding provider on first use.
func ensureEmbedder() (driven.EmbeddingService, error) {
	if embedder != nil {
		return embedder, nil
	}
	svc, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
	})
	if err != nil {
		return nil, err
	}
	embedder = svc
	return embedder, nil
}

// ensureCompletions builds the completion provider on first use.
func ensureCompletions() (driven.CompletionService, error) {
	if completions != nil {
		return completions, nil
	}
	svc, err := llmopenai.NewCompletionService(llmopenai.Config{
		APIKey:  cfg.Completion.APIKey,
		BaseURL: cfg.Completion.BaseURL,
		Model:   cfg.Completion.Model,
	})
	if err != nil {
		return nil, err
	}
	completions = svc
	return completions, nil
}

// ensureOcr builds the OCR provider on first use.
func ensureOcr() (driven.OcrService, error) {
	if ocrService != nil {
		return ocrService, nil
	}
	svc, err := mistral.NewOcrService(mistral.Config{
		APIKey:  cfg.Ocr.APIKey,
		BaseURL: cfg.Ocr.BaseURL,
		Model:   cfg.Ocr.Model,
	})
	if err != nil {
		return nil, err
	}
	ocrService = svc
	return ocrService, nil
}

// ensureIngestService wires the ingestion pipeline on first use.
func ensureIngestService() (driving.IngestService, error) {
	if ingestService != nil {
		return ingestService, nil
	}
	s, err := ensureStore()
	if err != nil {
		return nil, err
	}
	emb, err := ensureEmbedder()
	if err != nil {
		return nil, err
	}
	ingestService = services.NewIngestService(s.SourceStore(), s.VectorStore(), emb)
	return ingestService, nil
}

// ensureChatService wires the answer pipeline on first use.
func ensureChatService() (driving.ChatService, error) {
	if chatService != nil {
		return chatService, nil
	}
	s, err := ensureStore()
	if err != nil {
		return nil, err
	}
	emb, err := ensureEmbedder()
	if err != nil {
		return nil, err
	}
	comp, err := ensureCompletions()
	if err != nil {
		return nil, err
	}

	var opts []services.ChatOption
	if cfg.Chat.TopK > 0 {
		opts = append(opts, services.WithTopK(cfg.Chat.TopK))
	}
	if cfg.Chat.Instructions != "" {
		opts = append(opts, services.WithInstructions(cfg.Chat.Instructions))
	}

	chatService = services.NewChatService(
		emb, comp, s.VectorStore(), s.SourceStore(), s.MessageStore(), opts...)
	return chatService, nil
}

// ensureMappingService wires the mapping service on first use.
func ensureMappingService() (driving.MappingService, error) {
	if mappingService != nil {
		return mappingService, nil
	}
	s, err := ensureStore()
	if err != nil {
		return nil, err
	}
	mappingService = services.NewMappingService(s.SourceStore())
	return mappingService, nil
}

// ingestOptions builds pipeline options from the configuration.
func ingestOptions(mappingKeys []string) driving.IngestOptions {
	return driving.IngestOptions{
		ChunkSize:         cfg.Ingest.ChunkSize,
		BatchSize:         cfg.Ingest.BatchSize,
		BatchDelaySeconds: cfg.Ingest.BatchDelaySeconds,
		MappingKeys:       mappingKeys,
	}
}
