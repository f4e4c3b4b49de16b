package doctext

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extractor turns uploaded bytes into plain text. PDF and plain text are
// the supported media types; anything else yields empty text with no error,
// since "no extractable content" is a valid outcome distinct from a broken
// document. No retries, no side effects.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(data []byte, mediaType string) (string, error) {
	switch normalizeMediaType(mediaType) {
	case "application/pdf":
		return extractPDF(data)
	case "text/plain":
		return extractPlainText(data)
	default:
		return "", nil
	}
}

func normalizeMediaType(mediaType string) string {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return parsed
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf payload")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	// A scanned-image-only PDF parses fine but carries no text; that is a
	// valid empty result, not an extraction error.
	return strings.TrimSpace(string(text)), nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text/plain payload is not valid UTF-8")
	}
	return strings.TrimSpace(string(data)), nil
}
