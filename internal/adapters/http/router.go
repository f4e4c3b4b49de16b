package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/indexcol-web/document-chat/internal/config"
	"github.com/indexcol-web/document-chat/internal/core/ports"
	"github.com/indexcol-web/document-chat/internal/observability/metrics"
)

type Router struct {
	cfg config.Config

	ingest   ports.DocumentIngestor
	catalog  ports.DocumentCatalog
	chat     ports.ChatService
	verifier ports.IdentityVerifier

	httpMetrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	catalog ports.DocumentCatalog,
	chat ports.ChatService,
	verifier ports.IdentityVerifier,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	if httpMetrics == nil {
		httpMetrics = metrics.NewHTTPServerMetrics("api")
	}
	return &Router{
		cfg:         cfg,
		ingest:      ingest,
		catalog:     catalog,
		chat:        chat,
		verifier:    verifier,
		httpMetrics: httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.httpMetrics.Handler())
	mux.HandleFunc("/v1/auth/google", rt.authGoogle)
	mux.HandleFunc("/v1/chat", rt.authenticated(rt.chatTurn))
	mux.HandleFunc("/v1/upload", rt.authenticated(rt.uploadDocument))
	mux.HandleFunc("/v1/documents", rt.authenticated(rt.listDocuments))
	mux.HandleFunc("/v1/documents/", rt.authenticated(rt.documentByKey))

	var handler http.Handler = mux
	handler = rt.trafficControlMiddleware(handler)
	handler = rt.httpMetrics.Middleware("api", handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running!"})
}

func (rt *Router) trafficControlMiddleware(next http.Handler) http.Handler {
	handler := next
	if rt.cfg.APIMaxInFlight > 0 {
		queueTimeout := time.Duration(rt.cfg.APIQueueTimeoutMillis) * time.Millisecond
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, queueTimeout)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	return handler
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
