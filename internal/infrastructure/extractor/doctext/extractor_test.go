package doctext

import (
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	extractor := New()

	text, err := extractor.Extract([]byte("  hello world\n"), "text/plain")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "hello world" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractPlainTextWithCharsetParameter(t *testing.T) {
	extractor := New()

	text, err := extractor.Extract([]byte("hi"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "hi" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractPlainTextRejectsInvalidUTF8(t *testing.T) {
	extractor := New()

	if _, err := extractor.Extract([]byte{0xff, 0xfe, 0xfd}, "text/plain"); err == nil {
		t.Fatalf("expected an error for invalid UTF-8")
	}
}

func TestExtractUnsupportedTypeYieldsEmptyText(t *testing.T) {
	extractor := New()

	text, err := extractor.Extract([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractCorruptedPDFFails(t *testing.T) {
	extractor := New()

	if _, err := extractor.Extract([]byte("%PDF-1.4 garbage"), "application/pdf"); err == nil {
		t.Fatalf("expected an error for a corrupted pdf")
	}
	if _, err := extractor.Extract(nil, "application/pdf"); err == nil {
		t.Fatalf("expected an error for an empty pdf payload")
	}
}

func TestNormalizeMediaType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "application/pdf", want: "application/pdf"},
		{in: "Application/PDF", want: "application/pdf"},
		{in: "text/plain; charset=utf-8", want: "text/plain"},
		{in: "  ", want: ""},
	}
	for _, tc := range cases {
		if got := normalizeMediaType(tc.in); got != tc.want {
			t.Fatalf("normalizeMediaType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
