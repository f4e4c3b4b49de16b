package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

func newStorageForTest(t *testing.T) *Storage {
	t.Helper()
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return storage
}

func TestPutStatRoundTrip(t *testing.T) {
	storage := newStorageForTest(t)
	ctx := context.Background()

	metadata := map[string]string{"originalName": "notes.txt", "hasText": "true"}
	if err := storage.Put(ctx, "0000000000001-notes.txt", []byte("hello"), "text/plain", metadata); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	stat, err := storage.Stat(ctx, "0000000000001-notes.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if stat.ContentType != "text/plain" {
		t.Fatalf("content type = %q", stat.ContentType)
	}
	if stat.Metadata["originalName"] != "notes.txt" {
		t.Fatalf("metadata round-trip mismatch: %v", stat.Metadata)
	}
	if stat.CreatedAt.IsZero() {
		t.Fatalf("expected a creation timestamp")
	}
}

func TestGetReturnsBytesAndEnvelope(t *testing.T) {
	storage := newStorageForTest(t)
	ctx := context.Background()

	if err := storage.Put(ctx, "0000000000001-notes.txt", []byte("hello"), "text/plain", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, stat, err := storage.Get(ctx, "0000000000001-notes.txt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("data = %q", data)
	}
	if stat.ContentType != "text/plain" {
		t.Fatalf("content type = %q", stat.ContentType)
	}

	if _, _, err := storage.Get(ctx, "0000000000001-gone.txt"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestStatMissingObject(t *testing.T) {
	storage := newStorageForTest(t)

	_, err := storage.Stat(context.Background(), "0000000000001-gone.txt")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestListSkipsEnvelopelessFiles(t *testing.T) {
	storage := newStorageForTest(t)
	ctx := context.Background()

	if err := storage.Put(ctx, "0000000000001-a.txt", []byte("a"), "text/plain", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// A file dropped into the directory out of band has no envelope.
	if err := os.WriteFile(filepath.Join(storage.basePath, "stray.bin"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	stats, err := storage.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(stats) != 1 || stats[0].Key != "0000000000001-a.txt" {
		t.Fatalf("expected only the enveloped object, got %+v", stats)
	}
}

func TestDeleteRemovesObjectAndEnvelope(t *testing.T) {
	storage := newStorageForTest(t)
	ctx := context.Background()

	if err := storage.Put(ctx, "0000000000001-a.txt", []byte("a"), "text/plain", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := storage.Delete(ctx, "0000000000001-a.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	entries, err := os.ReadDir(storage.basePath)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, found %d entries", len(entries))
	}

	if err := storage.Delete(ctx, "0000000000001-a.txt"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound on repeat delete, got %v", err)
	}
}

func TestUnsafeKeysAreRejected(t *testing.T) {
	storage := newStorageForTest(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		if err := storage.Put(ctx, key, []byte("x"), "text/plain", nil); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Put(%q): expected ErrInvalidInput, got %v", key, err)
		}
		if _, err := storage.Stat(ctx, key); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Stat(%q): expected ErrInvalidInput, got %v", key, err)
		}
	}
}
