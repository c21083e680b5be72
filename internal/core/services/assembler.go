package services

import (
	"fmt"
	"strings"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// DefaultInstructions is the system turn template. The retrieved context
// is interpolated at the %s verb.
//
// The wording is a content contract, not formatting: the model must be
// told to answer strictly from the supplied context and to decline
// otherwise. Falling back to general knowledge would silently break the
// grounding guarantee the whole pipeline exists for.
const DefaultInstructions = `You are a helpful document assistant. Your ONLY job is to answer questions based strictly on the provided document context.

STRICT RULES:
- ONLY answer questions using information from the CONTEXT below
- If the answer is not in the CONTEXT, say "I don't have that information in the document"
- NEVER use your general knowledge or make assumptions beyond the document
- NEVER offer to do tasks you cannot do (generate QR codes, create files, etc.)
- If asked about yourself or your technology, say "I can only answer questions about the document"
- Be concise, friendly, and use natural language
- Format responses with paragraphs and bullet points when appropriate

CONTEXT:
%s`

// Assemble builds the ordered prompt handed to the completion provider:
// one system turn carrying the instructions with the retrieved context
// interpolated, every history turn unchanged and in order, then the
// user's question as the final turn.
//
// Matches are joined by a blank line in the order the retriever returned
// them, i.e. similarity-descending. instructions must contain exactly
// one %s verb.
func Assemble(
	instructions string,
	matches []domain.RetrievalMatch,
	history []domain.ConversationTurn,
	question string,
) []domain.ConversationTurn {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Text
	}
	contextText := strings.Join(parts, "\n\n")

	turns := make([]domain.ConversationTurn, 0, len(history)+2)
	turns = append(turns, domain.ConversationTurn{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(instructions, contextText),
	})
	turns = append(turns, history...)
	turns = append(turns, domain.ConversationTurn{
		Role:    domain.RoleUser,
		Content: question,
	})

	return turns
}
