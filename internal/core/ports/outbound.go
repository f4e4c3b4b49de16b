package ports

import (
	"context"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

// BlobStat describes one stored object: its key, declared content type,
// free-form string metadata, and backend creation time.
type BlobStat struct {
	Key         string
	ContentType string
	Metadata    map[string]string
	CreatedAt   time.Time
}

// BlobStore is the durable key -> (bytes, content type, metadata) backend.
// Reads always reflect current backend state; there is no cache in front.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, BlobStat, error)
	Stat(ctx context.Context, key string) (BlobStat, error)
	List(ctx context.Context) ([]BlobStat, error)
	Delete(ctx context.Context, key string) error
}

// TextExtractor turns raw bytes plus a declared media type into plain text.
// Unsupported media types yield empty text with a nil error; a corrupted
// document of a supported type yields an error. Never retries internally.
type TextExtractor interface {
	Extract(data []byte, mediaType string) (string, error)
}

// ChatCompleter is the language-model completion backend: one ordered
// message sequence and a model id in, one assistant reply out.
type ChatCompleter interface {
	Complete(ctx context.Context, modelID string, messages []domain.Message) (domain.Message, error)
}

// Identity is the verified caller identity yielded by credential validation.
type Identity struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"picture"`
}

// IdentityVerifier validates an opaque credential.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// DocumentEvent notifies downstream consumers about document lifecycle changes.
type DocumentEvent struct {
	Type string `json:"type"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

const (
	DocumentEventUploaded = "uploaded"
	DocumentEventDeleted  = "deleted"
)

// EventPublisher publishes document lifecycle events. Publishing is
// best-effort: a failed publish must not fail the triggering operation.
type EventPublisher interface {
	PublishDocumentEvent(ctx context.Context, event DocumentEvent) error
}
