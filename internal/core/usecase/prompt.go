package usecase

import (
	"strings"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

const groundingRules = `You are an assistant that answers questions about the user's uploaded documents.

Rules:
- The document content below is real user data, never an example or a placeholder.
- Answer using only information found in the documents.
- Respond in the same language the question is asked in.
- If the documents do not contain the requested information, say so explicitly instead of inventing an answer.
- Every document is wrapped in "=== BEGIN DOCUMENT: <name> ===" and "=== END DOCUMENT ===" markers. Only attribute content to a document when it appears between that document's markers.`

const noDocumentsNotice = `No documents are available for this conversation. Tell the user so when they ask about document content; do not invent any.`

// BuildMessages composes the outgoing message sequence: one synthesized
// system instruction followed by the caller's history verbatim. The history
// is never reordered, truncated, or deduplicated.
func BuildMessages(manifest []string, contextBlock string, history []domain.Message) []domain.Message {
	messages := make([]domain.Message, 0, len(history)+1)
	messages = append(messages, domain.Message{
		Role:    domain.RoleSystem,
		Content: buildSystemInstruction(manifest, contextBlock),
	})
	messages = append(messages, history...)
	return messages
}

func buildSystemInstruction(manifest []string, contextBlock string) string {
	var b strings.Builder
	b.WriteString(groundingRules)
	b.WriteString("\n\n")

	if len(manifest) == 0 || contextBlock == "" {
		b.WriteString(noDocumentsNotice)
		return b.String()
	}

	b.WriteString("Available documents:\n")
	for _, name := range manifest {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("\nDocuments:\n\n")
	b.WriteString(contextBlock)
	return b.String()
}
