package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/practicas/core/internal/domain/entities"
)

// JSONFile persists one collection as {"<key>": [...]} in a single file.
// It keeps nothing in memory: every Load reads the file again.
type JSONFile[T any] struct {
	path string
	key  string
}

// NewJSONFile creates a store for the collection key backed by path
func NewJSONFile[T any](path, key string) *JSONFile[T] {
	return &JSONFile[T]{path: path, key: key}
}

// Path returns the backing file
func (s *JSONFile[T]) Path() string {
	return s.path
}

// Key returns the collection key
func (s *JSONFile[T]) Key() string {
	return s.key
}

// Load reads the collection. A missing or blank file is an empty collection;
// a file that does not parse is a storage error.
func (s *JSONFile[T]) Load(_ context.Context) ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, entities.NewStorageError("failed to read "+s.key, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, entities.NewStorageError("corrupt collection file for "+s.key, err)
	}

	raw, ok := doc[s.key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, entities.NewStorageError("corrupt collection file for "+s.key, err)
	}
	if records == nil {
		records = []T{}
	}

	return records, nil
}

// Save replaces the whole collection
func (s *JSONFile[T]) Save(_ context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(map[string][]T{s.key: records}, "", "  ")
	if err != nil {
		return entities.NewStorageError("failed to encode "+s.key, err)
	}

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return entities.NewStorageError("failed to write "+s.key, err)
	}

	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it into place,
// so readers see either the previous or the new content.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
