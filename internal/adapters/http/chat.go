package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

type chatRequest struct {
	Messages    []domain.Message `json:"messages"`
	DocumentIDs *[]string        `json:"documentIds"`
	Model       string           `json:"model"`
}

// chatTurn runs one document-grounded conversation turn. An omitted
// documentIds field scopes the turn to every stored document; a present
// field (even an empty list) scopes it to exactly the listed keys.
func (rt *Router) chatTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages are required"})
		return
	}
	for i, message := range req.Messages {
		if !domain.ValidRole(message.Role) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("message %d has unknown role %q", i, message.Role),
			})
			return
		}
	}

	scope := domain.ScopeAll()
	if req.DocumentIDs != nil {
		scope = domain.ScopeKeys(*req.DocumentIDs)
	}

	start := time.Now()
	turn, err := rt.chat.HandleTurn(r.Context(), req.Messages, scope, strings.TrimSpace(req.Model))
	if err != nil {
		rt.httpMetrics.RecordChatTurn("api", "error", 0, time.Since(start))
		writeError(w, err)
		return
	}

	rt.httpMetrics.RecordChatTurn("api", "ok", len(turn.Manifest), time.Since(start))
	logAttrs(r.Context(),
		"scope_all", scope.All,
		"scope_keys", len(scope.Keys),
		"context_documents", len(turn.Manifest),
	)

	writeJSON(w, http.StatusOK, turn.Reply)
}
