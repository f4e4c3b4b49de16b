package ports

import (
	"context"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mediaType string, data []byte) (domain.Document, error)
}

// DocumentCatalog is the inbound read/delete model for stored documents.
type DocumentCatalog interface {
	List(ctx context.Context) ([]domain.Document, error)
	GetMetadata(ctx context.Context, key string) (domain.Document, error)
	Content(ctx context.Context, key string) ([]byte, domain.Document, error)
	Delete(ctx context.Context, key string) error
}

// ChatService is the inbound contract for one document-grounded chat turn.
type ChatService interface {
	HandleTurn(ctx context.Context, messages []domain.Message, scope domain.Scope, modelID string) (domain.ChatTurn, error)
}
