package usecase

import (
	"context"
	"log/slog"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

// CatalogUseCase exposes the stored documents for listing and deletion and
// announces deletions to downstream consumers.
type CatalogUseCase struct {
	store  *DocumentStore
	events ports.EventPublisher
}

func NewCatalogUseCase(store *DocumentStore, events ports.EventPublisher) *CatalogUseCase {
	return &CatalogUseCase{
		store:  store,
		events: events,
	}
}

func (uc *CatalogUseCase) List(ctx context.Context) ([]domain.Document, error) {
	return uc.store.List(ctx)
}

func (uc *CatalogUseCase) GetMetadata(ctx context.Context, key string) (domain.Document, error) {
	return uc.store.GetMetadata(ctx, key)
}

func (uc *CatalogUseCase) Content(ctx context.Context, key string) ([]byte, domain.Document, error) {
	return uc.store.Content(ctx, key)
}

func (uc *CatalogUseCase) Delete(ctx context.Context, key string) error {
	if err := uc.store.Delete(ctx, key); err != nil {
		return err
	}

	if uc.events != nil {
		name, _, parseErr := domain.ParseStorageKey(key)
		if parseErr != nil {
			name = key
		}
		event := ports.DocumentEvent{
			Type: ports.DocumentEventDeleted,
			Key:  key,
			Name: name,
		}
		if err := uc.events.PublishDocumentEvent(ctx, event); err != nil {
			slog.Warn("publish document event", "type", event.Type, "key", event.Key, "error", err)
		}
	}
	return nil
}
