package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	embeddingopenai "github.com/docchat-labs/docchat/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/docchat-labs/docchat/internal/adapters/driven/llm/openai"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the configured providers are reachable",
	Long: `Validates the configured API keys by pinging each provider's models
endpoint. No inference is run.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// pinger is the reachability check both HTTP providers expose.
type pinger interface {
	Ping(ctx context.Context) error
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	checkProvider(ctx, cmd, "embedding", func() (pinger, error) {
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	})
	checkProvider(ctx, cmd, "completion", func() (pinger, error) {
		return llmopenai.NewCompletionService(llmopenai.Config{
			APIKey:  cfg.Completion.APIKey,
			BaseURL: cfg.Completion.BaseURL,
			Model:   cfg.Completion.Model,
		})
	})

	return nil
}

func checkProvider(ctx context.Context, cmd *cobra.Command, name string, build func() (pinger, error)) {
	p, err := build()
	if err != nil {
		cmd.Printf("%-11s not configured: %v\n", name, err)
		return
	}
	if err := p.Ping(ctx); err != nil {
		cmd.Printf("%-11s unreachable: %v\n", name, err)
		return
	}
	cmd.Printf("%-11s ok\n", name)
}
