package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage ingested sources",
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceDeleteCmd = &cobra.Command{
	Use:   "delete [source-id]",
	Short: "Delete a source and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceDelete,
}

func init() {
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceDeleteCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	s, err := ensureStore()
	if err != nil {
		return err
	}

	sources, err := s.SourceStore().List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources. Ingest a document with `docchat ingest`.")
		return nil
	}

	for _, source := range sources {
		cmd.Printf("%s  %s  (%s)\n", source.ID, source.Name, source.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSourceDelete(cmd *cobra.Command, args []string) error {
	s, err := ensureStore()
	if err != nil {
		return err
	}

	id := args[0]
	if _, err := s.SourceStore().Get(cmd.Context(), id); err != nil {
		return fmt.Errorf("source %s: %w", id, err)
	}
	if err := s.SourceStore().Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}

	cmd.Printf("Deleted source %s\n", id)
	return nil
}
