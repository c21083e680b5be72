package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat/internal/core/ports/driving"
)

var (
	chatSession string
	chatSources []string
	chatPhone   string
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a question from the ingested documents, streaming the answer
as it is generated. Restrict the search with --source or --phone;
without either the whole corpus is searched.

Passing the same --session across invocations carries the conversation
history into each follow-up question.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "conversation session id (default: a fresh session)")
	chatCmd.Flags().StringArrayVar(&chatSources, "source", nil, "source id to search (repeatable)")
	chatCmd.Flags().StringVar(&chatPhone, "phone", "", "answer from the sources mapped to this phone number")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(chatSources) > 0 && chatPhone != "" {
		return fmt.Errorf("--source and --phone are mutually exclusive")
	}

	svc, err := ensureChatService()
	if err != nil {
		return err
	}

	session := chatSession
	if session == "" {
		session = uuid.NewString()
	}

	selector := driving.SourceSelector{
		SourceIDs:  chatSources,
		MappingKey: chatPhone,
	}

	if err := svc.Answer(cmd.Context(), session, selector, args[0], cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("answering: %w", err)
	}
	cmd.Println()

	if chatSession == "" {
		cmd.Printf("\n(session %s; pass --session %s to continue this conversation)\n", session, session)
	}
	return nil
}
