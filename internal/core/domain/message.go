package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a conversation. The caller-supplied
// history is never mutated; the prompt builder only prepends to it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatTurn is the outcome of one grounded chat turn: the backend's reply
// plus the manifest of document names that grounded it.
type ChatTurn struct {
	Reply    Message
	Manifest []string
}

func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}
