package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat/internal/adapters/driven/parser/pdf"
	"github.com/docchat-labs/docchat/internal/adapters/driven/watcher"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
	"github.com/docchat-labs/docchat/internal/core/services"
)

var watchPhones []string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest documents dropped into it",
	Long: `Monitors a directory and ingests every new or modified document until
interrupted. PDFs are parsed locally; other watched files are treated
as plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringArrayVar(&watchPhones, "phone", nil, "phone number to map to every ingested source (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	svc, err := ensureIngestService()
	if err != nil {
		return err
	}

	w, err := watcher.New(cfg.Watch.Extensions)
	if err != nil {
		return err
	}
	defer w.Close()

	auto := services.NewAutoIngestor(
		w,
		[]driven.DocumentParser{pdf.NewParser()},
		svc,
		ingestOptions(watchPhones),
	)

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)
	if err := auto.Run(cmd.Context(), dir); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	return nil
}
