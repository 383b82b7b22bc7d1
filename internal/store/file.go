package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/yourusername/rookscore/internal/models"
)

// FileStore keeps snapshots in a single JSON document shaped like a browser
// localStorage export: an object mapping each key to its value.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore returns a store backed by the JSON document at path.
// The file is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store path is required")
	}
	return &FileStore{path: path}, nil
}

// Get returns the value stored under key.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return normalizeValue(raw), nil
}

// Put stores value under key. value must be a JSON document.
func (f *FileStore) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s: %w", key, models.ErrInvalidSnapshot)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(bytes.Clone(value))
	return f.write(doc)
}

// Keys returns the stored keys in sorted order.
func (f *FileStore) Keys(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	keys := lo.Keys(doc)
	slices.Sort(keys)
	return keys, nil
}

// Ping verifies the document is readable.
func (f *FileStore) Ping(_ context.Context) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := f.read()
	return err
}

// Close is a no-op.
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot file %s: %w: %v", f.path, models.ErrInvalidSnapshot, err)
	}
	return doc, nil
}

func (f *FileStore) write(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}

// normalizeValue unwraps localStorage values that were exported as
// JSON-encoded strings.
func normalizeValue(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return trimmed
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return trimmed
	}
	if json.Valid([]byte(s)) {
		return []byte(s)
	}
	return trimmed
}
