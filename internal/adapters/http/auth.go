package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/indexcol-web/document-chat/internal/core/ports"
)

type identityContextKey struct{}

func identityFromContext(ctx context.Context) (ports.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(ports.Identity)
	return identity, ok
}

// authenticated guards a handler behind credential verification. Auth is
// disabled entirely when no verifier is configured, matching the local
// development setup.
func (rt *Router) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.verifier == nil {
			next(w, r)
			return
		}

		credential := bearerCredential(r.Header.Get("Authorization"))
		if credential == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bearer credential is required"})
			return
		}

		identity, err := rt.verifier.Verify(r.Context(), credential)
		if err != nil {
			writeError(w, err)
			return
		}

		logAttrs(r.Context(), "user", identity.Email)
		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next(w, r.WithContext(ctx))
	}
}

// authGoogle verifies a Google ID token and echoes the verified identity,
// the handshake the login screen performs before any document call.
func (rt *Router) authGoogle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.verifier == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "authentication is not configured"})
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}

	identity, err := rt.verifier.Verify(r.Context(), req.Token)
	if err != nil {
		if mapErrorToHTTPStatus(err) == http.StatusUnauthorized {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":   "Authentication failed",
				"details": err.Error(),
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    identity,
	})
}

func bearerCredential(headerValue string) string {
	headerValue = strings.TrimSpace(headerValue)
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(headerValue, bearerPrefix))
}
