package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

const (
	documentSectionBegin = "=== BEGIN DOCUMENT: %s ==="
	documentSectionEnd   = "=== END DOCUMENT ==="
)

// ContextAssembler resolves a scope to concrete documents and renders the
// delimited context block plus the manifest of included display names.
//
// Per-document problems are isolated: keys that no longer exist are dropped
// and documents whose metadata cannot be fetched are logged and skipped.
// Only when the storage backend is unreachable as a whole does assembly fail,
// so a chat turn is never silently answered without the grounding it asked for.
type ContextAssembler struct {
	store        *DocumentStore
	fetchTimeout time.Duration
}

func NewContextAssembler(store *DocumentStore, fetchTimeout time.Duration) *ContextAssembler {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &ContextAssembler{
		store:        store,
		fetchTimeout: fetchTimeout,
	}
}

// Assemble renders the context block and manifest for one chat turn.
// Sections appear in resolved key order regardless of fetch completion order.
func (a *ContextAssembler) Assemble(ctx context.Context, scope domain.Scope) (string, []string, error) {
	keys, err := a.resolveKeys(ctx, scope)
	if err != nil {
		return "", nil, err
	}
	if len(keys) == 0 {
		return "", nil, nil
	}

	docs, err := a.fetchAll(ctx, keys)
	if err != nil {
		return "", nil, err
	}

	sections := make([]string, 0, len(docs))
	manifest := make([]string, 0, len(docs))
	for _, doc := range docs {
		sections = append(sections, renderSection(doc))
		manifest = append(manifest, doc.Name)
	}
	return strings.Join(sections, "\n\n"), manifest, nil
}

func (a *ContextAssembler) resolveKeys(ctx context.Context, scope domain.Scope) ([]string, error) {
	if !scope.All {
		return scope.Keys, nil
	}
	docs, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return SortedKeys(docs), nil
}

type fetchResult struct {
	doc domain.Document
	err error
}

// fetchAll fans out one metadata fetch per key and zips results back to the
// originating index, preserving the resolved ordering.
func (a *ContextAssembler) fetchAll(ctx context.Context, keys []string) ([]domain.Document, error) {
	results := make([]fetchResult, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
			defer cancel()
			doc, err := a.store.GetMetadata(fetchCtx, key)
			results[i] = fetchResult{doc: doc, err: err}
		}(i, key)
	}
	wg.Wait()

	docs := make([]domain.Document, 0, len(keys))
	failed := 0
	for i, result := range results {
		switch {
		case result.err == nil:
			if result.doc.ExtractedText == "" {
				continue
			}
			docs = append(docs, result.doc)
		case domain.IsKind(result.err, domain.ErrDocumentNotFound):
			// Deleted between client-side selection and send; dropped silently.
		default:
			failed++
			slog.Warn("skip document in context assembly", "key", keys[i], "error", result.err)
		}
	}

	if failed == len(keys) {
		return nil, domain.WrapError(
			domain.ErrUpstream,
			"assemble context",
			fmt.Errorf("all %d metadata fetches failed: %w", failed, firstError(results)),
		)
	}
	return docs, nil
}

func firstError(results []fetchResult) error {
	for _, result := range results {
		if result.err != nil {
			return result.err
		}
	}
	return errors.New("no error recorded")
}

func renderSection(doc domain.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, documentSectionBegin, doc.Name)
	b.WriteString("\n\n")
	b.WriteString(doc.ExtractedText)
	b.WriteString("\n\n")
	b.WriteString(documentSectionEnd)
	return b.String()
}
