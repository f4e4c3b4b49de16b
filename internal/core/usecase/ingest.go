package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

// IngestDocumentUseCase runs the upload pipeline: extract text, store the
// file with its envelope, announce the new document.
//
// Policy for text-free uploads: a document whose extraction legitimately
// yields no text (unsupported media type, text-free PDF) is stored with an
// explicit empty-text marker. Extraction errors abort the upload instead;
// empty text is never recorded as if extraction had succeeded on a broken file.
type IngestDocumentUseCase struct {
	extractor ports.TextExtractor
	store     *DocumentStore
	events    ports.EventPublisher
}

func NewIngestDocumentUseCase(
	extractor ports.TextExtractor,
	store *DocumentStore,
	events ports.EventPublisher,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		extractor: extractor,
		store:     store,
		events:    events,
	}
}

func (uc *IngestDocumentUseCase) Upload(ctx context.Context, filename, mediaType string, data []byte) (domain.Document, error) {
	if filename == "" {
		return domain.Document{}, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("file name is required"))
	}
	if len(data) == 0 {
		return domain.Document{}, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("file is empty"))
	}

	text, err := uc.extractor.Extract(data, mediaType)
	if err != nil {
		return domain.Document{}, domain.WrapError(domain.ErrExtraction, "extract text", err)
	}

	doc, err := uc.store.Put(ctx, data, mediaType, filename, text)
	if err != nil {
		return domain.Document{}, err
	}

	uc.publish(ctx, ports.DocumentEvent{
		Type: ports.DocumentEventUploaded,
		Key:  doc.Key,
		Name: doc.Name,
	})

	return doc, nil
}

// publish is best-effort: a queue outage must not fail the upload.
func (uc *IngestDocumentUseCase) publish(ctx context.Context, event ports.DocumentEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishDocumentEvent(ctx, event); err != nil {
		slog.Warn("publish document event", "type", event.Type, "key", event.Key, "error", err)
	}
}
