package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores all buckets in one JSON document on disk. Saves write a
// temporary file next to the target and rename it into place.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend persisting to path, creating parent
// directories as needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		path = "crmcore.snapshot.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return &FileBackend{path: path}, nil
}

func (f *FileBackend) Name() string { return "file" }

// Path returns the document location.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Load(context.Context) (Buckets, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Buckets{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) == 0 {
		return Buckets{}, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	out := make(Buckets, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (f *FileBackend) Save(_ context.Context, buckets Buckets) (retErr error) {
	doc := make(map[string]json.RawMessage, len(buckets))
	for k, v := range buckets {
		doc[k] = v
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }
