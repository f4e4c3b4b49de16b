package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

// sidecar suffix for the per-object metadata envelope
const envelopeSuffix = ".meta.json"

type envelope struct {
	ContentType string            `json:"contentType"`
	Metadata    map[string]string `json:"metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Storage is a filesystem blob store: object bytes under basePath/<key>,
// the metadata envelope under basePath/<key>.meta.json. Keys produced by
// the document key codec are percent-encoded, so they are safe file names.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	dataPath := filepath.Join(s.basePath, key)
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return fmt.Errorf("write object: %w", err)
	}

	env := envelope{
		ContentType: contentType,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := os.WriteFile(dataPath+envelopeSuffix, raw, 0o644); err != nil {
		// No partial apply: an object without its envelope is unreadable.
		_ = os.Remove(dataPath)
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, ports.BlobStat, error) {
	stat, err := s.Stat(ctx, key)
	if err != nil {
		return nil, ports.BlobStat{}, err
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.BlobStat{}, domain.WrapError(domain.ErrDocumentNotFound, "read object", err)
		}
		return nil, ports.BlobStat{}, fmt.Errorf("read object: %w", err)
	}
	return data, stat, nil
}

func (s *Storage) Stat(ctx context.Context, key string) (ports.BlobStat, error) {
	if err := validateKey(key); err != nil {
		return ports.BlobStat{}, err
	}

	raw, err := os.ReadFile(filepath.Join(s.basePath, key+envelopeSuffix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.BlobStat{}, domain.WrapError(domain.ErrDocumentNotFound, "stat object", err)
		}
		return ports.BlobStat{}, fmt.Errorf("read envelope: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ports.BlobStat{}, fmt.Errorf("decode envelope for %q: %w", key, err)
	}

	return ports.BlobStat{
		Key:         key,
		ContentType: env.ContentType,
		Metadata:    env.Metadata,
		CreatedAt:   env.CreatedAt,
	}, nil
}

func (s *Storage) List(ctx context.Context) ([]ports.BlobStat, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("read storage dir: %w", err)
	}

	stats := make([]ports.BlobStat, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), envelopeSuffix) {
			continue
		}
		stat, err := s.Stat(ctx, entry.Name())
		if err != nil {
			// An object written without its envelope; not one of ours.
			continue
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	dataPath := filepath.Join(s.basePath, key)
	if err := os.Remove(dataPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.WrapError(domain.ErrDocumentNotFound, "delete object", err)
		}
		return fmt.Errorf("delete object: %w", err)
	}
	if err := os.Remove(dataPath + envelopeSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete envelope: %w", err)
	}
	return nil
}

// validateKey rejects keys that would escape the storage directory.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || key != filepath.Base(key) {
		return domain.WrapError(domain.ErrInvalidInput, "storage key", fmt.Errorf("unsafe key %q", key))
	}
	return nil
}
