package bootstrap

import (
	"fmt"
	"time"

	"github.com/indexcol-web/document-chat/internal/config"
	"github.com/indexcol-web/document-chat/internal/core/ports"
	"github.com/indexcol-web/document-chat/internal/core/usecase"
	"github.com/indexcol-web/document-chat/internal/infrastructure/extractor/doctext"
	"github.com/indexcol-web/document-chat/internal/infrastructure/identity/googleid"
	"github.com/indexcol-web/document-chat/internal/infrastructure/llm/openaicompat"
	"github.com/indexcol-web/document-chat/internal/infrastructure/queue/nats"
	"github.com/indexcol-web/document-chat/internal/infrastructure/resilience"
	"github.com/indexcol-web/document-chat/internal/infrastructure/storage/localfs"
	"github.com/indexcol-web/document-chat/internal/observability/metrics"
)

// App holds every explicitly constructed dependency for the process
// lifetime. There are no module-level singletons; everything is wired here
// once and handed to the HTTP adapter.
type App struct {
	Config config.Config

	IngestUC  ports.DocumentIngestor
	CatalogUC ports.DocumentCatalog
	ChatUC    ports.ChatService
	Verifier  ports.IdentityVerifier

	HTTPMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	blobs, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init blob storage: %w", err)
	}

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	executor := resilience.NewExecutor(resilience.DefaultConfig())

	var events ports.EventPublisher
	var closePublisher func()
	if cfg.NATSURL != "" {
		publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
		closePublisher = publisher.Close
	}

	completer := openaicompat.NewWithOptions(cfg.CompletionBaseURL, cfg.CompletionAPIKey, openaicompat.Options{
		Timeout:            time.Duration(cfg.CompletionTimeoutSeconds) * time.Second,
		ResilienceExecutor: executor,
		Usage:              httpMetrics,
	})

	store := usecase.NewDocumentStore(blobs, cfg.PublicBaseURL)
	assembler := usecase.NewContextAssembler(store, time.Duration(cfg.ContextFetchTimeoutSeconds)*time.Second)

	var verifier ports.IdentityVerifier
	if cfg.GoogleClientID != "" {
		verifier = googleid.New(cfg.GoogleClientID)
	}

	return &App{
		Config: cfg,

		IngestUC:  usecase.NewIngestDocumentUseCase(doctext.New(), store, events),
		CatalogUC: usecase.NewCatalogUseCase(store, events),
		ChatUC: usecase.NewChatUseCase(
			assembler,
			completer,
			cfg.CompletionModelID,
			time.Duration(cfg.CompletionTimeoutSeconds)*time.Second,
		),
		Verifier: verifier,

		HTTPMetrics: httpMetrics,

		closeFn: func() {
			if closePublisher != nil {
				closePublisher()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
