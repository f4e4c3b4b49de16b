package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

// Metadata envelope keys written alongside every stored object.
const (
	metaOriginalName  = "originalName"
	metaExtractedText = "extractedText"
	metaHasText       = "hasText"
)

// DocumentStore adapts the blob store to document records: it generates
// storage keys, writes the metadata envelope, and decodes records back.
// The blob store is the only metadata authority; nothing is cached here.
type DocumentStore struct {
	blobs         ports.BlobStore
	publicBaseURL string
}

func NewDocumentStore(blobs ports.BlobStore, publicBaseURL string) *DocumentStore {
	return &DocumentStore{
		blobs:         blobs,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Put stores the file bytes plus the metadata envelope and returns the new
// record. No record exists unless the underlying write succeeded.
func (s *DocumentStore) Put(ctx context.Context, data []byte, contentType, originalName, extractedText string) (domain.Document, error) {
	createdAt := time.Now().UTC()
	key := domain.NewStorageKey(originalName, createdAt)

	metadata := map[string]string{
		metaOriginalName:  originalName,
		metaExtractedText: extractedText,
		metaHasText:       strconv.FormatBool(extractedText != ""),
	}
	if err := s.blobs.Put(ctx, key, data, contentType, metadata); err != nil {
		return domain.Document{}, domain.WrapError(domain.ErrStorageWrite, "store document", err)
	}

	return domain.Document{
		Key:           key,
		Name:          originalName,
		ContentType:   contentType,
		URL:           s.locator(key),
		CreatedAt:     createdAt,
		HasText:       extractedText != "",
		ExtractedText: extractedText,
	}, nil
}

// List returns a record per stored object. Objects whose keys do not parse
// were not written by this service and are skipped.
func (s *DocumentStore) List(ctx context.Context) ([]domain.Document, error) {
	stats, err := s.blobs.List(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "list documents", err)
	}

	docs := make([]domain.Document, 0, len(stats))
	for _, stat := range stats {
		doc, err := s.record(stat)
		if err != nil {
			slog.Warn("skip foreign storage object", "key", stat.Key, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Content returns the stored file bytes together with the decoded record.
func (s *DocumentStore) Content(ctx context.Context, key string) ([]byte, domain.Document, error) {
	data, stat, err := s.blobs.Get(ctx, key)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			return nil, domain.Document{}, err
		}
		return nil, domain.Document{}, domain.WrapError(domain.ErrUpstream, "read document", err)
	}

	doc, err := s.record(stat)
	if err != nil {
		return nil, domain.Document{}, err
	}
	return data, doc, nil
}

func (s *DocumentStore) GetMetadata(ctx context.Context, key string) (domain.Document, error) {
	stat, err := s.blobs.Stat(ctx, key)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			return domain.Document{}, err
		}
		return domain.Document{}, domain.WrapError(domain.ErrUpstream, "stat document", err)
	}
	return s.record(stat)
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.blobs.Delete(ctx, key); err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			return err
		}
		return domain.WrapError(domain.ErrUpstream, "delete document", err)
	}
	return nil
}

// SortedKeys resolves the deterministic key ordering used for "all documents"
// scopes: ascending key order, which is chronological thanks to the
// fixed-width timestamp prefix.
func SortedKeys(docs []domain.Document) []string {
	keys := make([]string, len(docs))
	for i, doc := range docs {
		keys[i] = doc.Key
	}
	sort.Strings(keys)
	return keys
}

func (s *DocumentStore) record(stat ports.BlobStat) (domain.Document, error) {
	name, createdAt, err := domain.ParseStorageKey(stat.Key)
	if err != nil {
		return domain.Document{}, err
	}

	text := stat.Metadata[metaExtractedText]
	hasText, _ := strconv.ParseBool(stat.Metadata[metaHasText])

	return domain.Document{
		Key:           stat.Key,
		Name:          name,
		ContentType:   stat.ContentType,
		URL:           s.locator(stat.Key),
		CreatedAt:     createdAt,
		HasText:       hasText && text != "",
		ExtractedText: text,
	}, nil
}

// locator builds the URL a client uses to reach the document. The key is
// re-encoded for the path segment: keys already contain percent-escapes, and
// every read path decodes the segment exactly once, so the raw key would
// lose its escapes on the way back in.
func (s *DocumentStore) locator(key string) string {
	escaped := url.PathEscape(key)
	if s.publicBaseURL == "" {
		return "/v1/documents/" + escaped
	}
	return s.publicBaseURL + "/" + escaped
}
