package httpadapter

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

// uploadDocument accepts a multipart file, extracts its text, and stores it.
func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(rt.cfg.MaxUploadBytes))
	}

	file, fileHeader, err := r.FormFile("document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'document' is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "could not read uploaded file",
			"details": err.Error(),
		})
		return
	}

	doc, err := rt.ingest.Upload(r.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		rt.httpMetrics.RecordUpload("api", uploadOutcome(err), 0)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{
			"error":   "Error uploading file",
			"details": err.Error(),
		})
		return
	}

	rt.httpMetrics.RecordUpload("api", "ok", len(doc.ExtractedText))
	logAttrs(r.Context(), "document_key", doc.Key, "has_text", doc.HasText)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"document": doc,
	})
}

func uploadOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrExtraction):
		return "extraction_failed"
	case domain.IsKind(err, domain.ErrStorageWrite):
		return "storage_failed"
	default:
		return "error"
	}
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	docs, err := rt.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// Backend listing order is unspecified; present chronologically.
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// documentByKey serves the per-document routes: GET streams the stored
// bytes, DELETE removes the document. The key travels percent-encoded in
// the URL path and is decoded exactly once here, mirroring how it was
// encoded when the locator was built.
func (rt *Router) documentByKey(w http.ResponseWriter, r *http.Request) {
	encoded := strings.TrimPrefix(r.URL.EscapedPath(), "/v1/documents/")
	if encoded == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document key is required"})
		return
	}
	key, err := url.PathUnescape(encoded)
	if err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "decode document key", err))
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.downloadDocument(w, r, key)
	case http.MethodDelete:
		rt.deleteDocument(w, r, key)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) downloadDocument(w http.ResponseWriter, r *http.Request, key string) {
	data, doc, err := rt.catalog.Content(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	logAttrs(r.Context(), "document_key", doc.Key)

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request, key string) {
	if err := rt.catalog.Delete(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}

	rt.httpMetrics.RecordDocumentDeleted()
	logAttrs(r.Context(), "document_key", key)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
