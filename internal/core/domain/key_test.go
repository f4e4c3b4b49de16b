package domain

import (
	"strings"
	"testing"
	"time"
)

func TestStorageKeyRoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		fileName string
	}{
		{name: "plain", fileName: "report.pdf"},
		{name: "spaces", fileName: "annual report 2024.pdf"},
		{name: "delimiter in name", fileName: "2023-annual-report.pdf"},
		{name: "leading digits and delimiter", fileName: "0123456789012-notes.txt"},
		{name: "percent sign", fileName: "growth 10%.txt"},
		{name: "unicode", fileName: "отчёт-итоги.pdf"},
		{name: "slash", fileName: "q1/q2 summary.txt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := NewStorageKey(tc.fileName, createdAt)

			if strings.ContainsAny(key, "/ ") {
				t.Fatalf("key %q is not path-safe", key)
			}

			name, parsedAt, err := ParseStorageKey(key)
			if err != nil {
				t.Fatalf("ParseStorageKey(%q) error = %v", key, err)
			}
			if name != tc.fileName {
				t.Fatalf("name round-trip: got %q, want %q", name, tc.fileName)
			}
			if !parsedAt.Equal(createdAt) {
				t.Fatalf("timestamp round-trip: got %v, want %v", parsedAt, createdAt)
			}
		})
	}
}

func TestStorageKeyOrderingFollowsCreationTime(t *testing.T) {
	earlier := NewStorageKey("zzz.txt", time.UnixMilli(1_700_000_000_000))
	later := NewStorageKey("aaa.txt", time.UnixMilli(1_700_000_000_001))

	if !(earlier < later) {
		t.Fatalf("expected %q < %q", earlier, later)
	}
}

func TestParseStorageKeyRejectsMalformedKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "too short", key: "123-a"},
		{name: "missing separator", key: "0000000000000x.txt"},
		{name: "non numeric prefix", key: "00000000000ab-x.txt"},
		{name: "empty name", key: "0000000000000-"},
		{name: "broken escape", key: "0000000000000-a%2.txt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParseStorageKey(tc.key); err == nil {
				t.Fatalf("ParseStorageKey(%q) expected error", tc.key)
			}
		})
	}
}
