package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mappingListKey string

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Manage phone-to-source mappings",
	Long: `Maps phone numbers to sources so a caller identity can be routed to
its documents. A phone number can map to many sources and a source can
be reached through many phone numbers.`,
}

var mappingAddCmd = &cobra.Command{
	Use:   "add [phone] [source-id]",
	Short: "Map a phone number to a source",
	Args:  cobra.ExactArgs(2),
	RunE:  runMappingAdd,
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mappings",
	Args:  cobra.NoArgs,
	RunE:  runMappingList,
}

func init() {
	mappingListCmd.Flags().StringVar(&mappingListKey, "phone", "", "only show mappings for this phone number")
	mappingCmd.AddCommand(mappingAddCmd)
	mappingCmd.AddCommand(mappingListCmd)
	rootCmd.AddCommand(mappingCmd)
}

func runMappingAdd(cmd *cobra.Command, args []string) error {
	svc, err := ensureMappingService()
	if err != nil {
		return err
	}

	key, sourceID := args[0], args[1]
	if err := svc.Add(cmd.Context(), key, sourceID); err != nil {
		return fmt.Errorf("adding mapping: %w", err)
	}

	cmd.Printf("Mapped %s -> %s\n", key, sourceID)
	return nil
}

func runMappingList(cmd *cobra.Command, _ []string) error {
	svc, err := ensureMappingService()
	if err != nil {
		return err
	}

	mappings, err := svc.List(cmd.Context(), mappingListKey)
	if err != nil {
		return fmt.Errorf("listing mappings: %w", err)
	}

	if len(mappings) == 0 {
		cmd.Println("No mappings.")
		return nil
	}

	for _, m := range mappings {
		cmd.Printf("%s -> %s  (%s)\n", m.Key, m.SourceID, m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
