package domain

import "time"

// Document is the stored metadata entity representing one uploaded file.
// ExtractedText may be the empty string, which means "no text available";
// HasText records whether extraction produced any text at upload time.
type Document struct {
	Key         string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"type"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"uploadDate"`
	HasText     bool      `json:"hasText"`

	ExtractedText string `json:"-"`
}

// Scope selects which documents ground a chat turn: every stored document,
// or an explicit key set (which may be empty, meaning "no context").
type Scope struct {
	All  bool
	Keys []string
}

func ScopeAll() Scope {
	return Scope{All: true}
}

func ScopeKeys(keys []string) Scope {
	return Scope{Keys: keys}
}
