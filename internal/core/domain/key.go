package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Storage keys have the form <13-digit unix-millisecond timestamp>-<escaped name>.
// The prefix is fixed width so the separator position is unambiguous even when
// the original file name itself contains '-'. The name part is percent-encoded,
// which also makes the whole key safe to place in a URL path segment.
const keyTimestampWidth = 13

var ErrMalformedKey = errors.New("malformed storage key")

// NewStorageKey builds the unique storage key for an uploaded file.
func NewStorageKey(name string, createdAt time.Time) string {
	return fmt.Sprintf("%0*d-%s", keyTimestampWidth, createdAt.UnixMilli(), url.PathEscape(name))
}

// ParseStorageKey splits a storage key back into its creation timestamp and
// the original display name.
func ParseStorageKey(key string) (string, time.Time, error) {
	if len(key) < keyTimestampWidth+2 || key[keyTimestampWidth] != '-' {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	prefix := key[:keyTimestampWidth]
	if strings.ContainsFunc(prefix, func(r rune) bool { return !unicode.IsDigit(r) }) {
		return "", time.Time{}, fmt.Errorf("%w: non-numeric timestamp prefix in %q", ErrMalformedKey, key)
	}
	millis, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	name, err := url.PathUnescape(key[keyTimestampWidth+1:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: undecodable name in %q", ErrMalformedKey, key)
	}
	if name == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty name in %q", ErrMalformedKey, key)
	}

	return name, time.UnixMilli(millis).UTC(), nil
}
