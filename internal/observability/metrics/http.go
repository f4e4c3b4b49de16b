package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics instruments the API surface plus the chat and upload
// pipelines behind it.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	chatTurnsTotal       *prometheus.CounterVec
	chatContextDocuments *prometheus.HistogramVec
	chatNoContextTotal   *prometheus.CounterVec
	chatDuration         *prometheus.HistogramVec
	llmTokensTotal       *prometheus.CounterVec

	uploadsTotal      *prometheus.CounterVec
	uploadedTextChars *prometheus.HistogramVec
	documentsDeleted  prometheus.Counter
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docchat",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chatTurnsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total chat turns by outcome.",
		},
		[]string{"service", "outcome"},
	)
	chatContextDocuments := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Subsystem: "chat",
			Name:      "context_documents",
			Help:      "Distribution of documents included per chat turn.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	chatNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "chat",
			Name:      "no_context_total",
			Help:      "Total chat turns answered with zero grounding documents.",
		},
		[]string{"service"},
	)
	chatDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Subsystem: "chat",
			Name:      "turn_duration_seconds",
			Help:      "Chat turn duration in seconds, completion call included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Token usage reported by the completion backend.",
		},
		[]string{"service", "direction", "model"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "upload",
			Name:      "documents_total",
			Help:      "Total document uploads by outcome.",
		},
		[]string{"service", "outcome"},
	)
	uploadedTextChars := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Subsystem: "upload",
			Name:      "extracted_chars",
			Help:      "Distribution of extracted text length per stored document.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"service"},
	)
	documentsDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "documents",
			Name:      "deleted_total",
			Help:      "Total deleted documents.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		chatTurnsTotal,
		chatContextDocuments,
		chatNoContextTotal,
		chatDuration,
		llmTokensTotal,
		uploadsTotal,
		uploadedTextChars,
		documentsDeleted,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		chatTurnsTotal:       chatTurnsTotal,
		chatContextDocuments: chatContextDocuments,
		chatNoContextTotal:   chatNoContextTotal,
		chatDuration:         chatDuration,
		llmTokensTotal:       llmTokensTotal,
		uploadsTotal:         uploadsTotal,
		uploadedTextChars:    uploadedTextChars,
		documentsDeleted:     documentsDeleted,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{key}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordChatTurn(service, outcome string, contextDocuments int, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.chatTurnsTotal.WithLabelValues(service, outcome).Inc()
	if outcome != "ok" {
		return
	}
	m.chatContextDocuments.WithLabelValues(service).Observe(float64(contextDocuments))
	m.chatDuration.WithLabelValues(service).Observe(duration.Seconds())
	if contextDocuments == 0 {
		m.chatNoContextTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, outcome string, extractedChars int) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, outcome).Inc()
	if outcome == "ok" {
		m.uploadedTextChars.WithLabelValues(service).Observe(float64(extractedChars))
	}
}

func (m *HTTPServerMetrics) RecordDocumentDeleted() {
	m.documentsDeleted.Inc()
}

func (m *HTTPServerMetrics) RecordTokenUsage(model string, promptTokens, completionTokens int) {
	if model == "" {
		model = "unknown"
	}
	if promptTokens > 0 {
		m.llmTokensTotal.WithLabelValues("api", "in", model).Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokensTotal.WithLabelValues("api", "out", model).Add(float64(completionTokens))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
