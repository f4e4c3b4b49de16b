package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract([]byte, string) (string, error) {
	return f.text, f.err
}

type publisherFake struct {
	mu     sync.Mutex
	events []ports.DocumentEvent
	err    error
}

func (f *publisherFake) PublishDocumentEvent(_ context.Context, event ports.DocumentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestUploadStoresDocumentAndPublishesEvent(t *testing.T) {
	blobs := newBlobStoreFake()
	events := &publisherFake{}
	uc := NewIngestDocumentUseCase(&extractorFake{text: "hello"}, NewDocumentStore(blobs, ""), events)

	doc, err := uc.Upload(context.Background(), "greeting.txt", "text/plain", []byte("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !doc.HasText {
		t.Fatalf("expected HasText=true")
	}
	if len(events.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(events.events))
	}
	if events.events[0].Type != ports.DocumentEventUploaded || events.events[0].Key != doc.Key {
		t.Fatalf("unexpected event %+v", events.events[0])
	}
}

func TestUploadTextFreeDocumentIsStored(t *testing.T) {
	blobs := newBlobStoreFake()
	uc := NewIngestDocumentUseCase(&extractorFake{text: ""}, NewDocumentStore(blobs, ""), nil)

	doc, err := uc.Upload(context.Background(), "photo.png", "image/png", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.HasText {
		t.Fatalf("expected HasText=false for a text-free upload")
	}
	if len(blobs.objects) != 1 {
		t.Fatalf("expected the object to be stored")
	}
}

func TestUploadExtractionFailureAborts(t *testing.T) {
	blobs := newBlobStoreFake()
	uc := NewIngestDocumentUseCase(&extractorFake{err: errors.New("truncated xref table")}, NewDocumentStore(blobs, ""), nil)

	_, err := uc.Upload(context.Background(), "broken.pdf", "application/pdf", []byte("%PDF-"))
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if len(blobs.objects) != 0 {
		t.Fatalf("nothing may be stored when extraction fails")
	}
}

func TestUploadValidatesInput(t *testing.T) {
	uc := NewIngestDocumentUseCase(&extractorFake{}, NewDocumentStore(newBlobStoreFake(), ""), nil)

	if _, err := uc.Upload(context.Background(), "", "text/plain", []byte("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty payload, got %v", err)
	}
}

func TestUploadSurvivesPublisherOutage(t *testing.T) {
	blobs := newBlobStoreFake()
	events := &publisherFake{err: errors.New("no servers available")}
	uc := NewIngestDocumentUseCase(&extractorFake{text: "hello"}, NewDocumentStore(blobs, ""), events)

	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", []byte("hello")); err != nil {
		t.Fatalf("Upload() must not fail on a publish error, got %v", err)
	}
}
