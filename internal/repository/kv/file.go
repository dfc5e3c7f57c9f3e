package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes each key to its own JSON file under a directory. Writes go
// through a temp file and rename so a crash never leaves a truncated snapshot.
type FileStore struct {
	dir string
}

// NewFileStore prepares dir and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the file for key.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the file for key.
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	return f.SetAll(ctx, []Entry{{Key: key, Value: value}})
}

// SetAll stages every entry in a temp file before renaming any of them, so a
// failed write leaves all existing files untouched.
func (f *FileStore) SetAll(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		path, err := f.path(e.Key)
		if err != nil {
			return err
		}
		paths[i] = path
	}

	staged := make([]string, 0, len(entries))
	discard := func() {
		for _, temp := range staged {
			_ = os.Remove(temp)
		}
	}

	for i, e := range entries {
		temp := paths[i] + ".tmp"
		if err := os.WriteFile(temp, e.Value, 0o644); err != nil {
			discard()
			return fmt.Errorf("write %s: %w", e.Key, err)
		}
		staged = append(staged, temp)
	}

	for i, temp := range staged {
		if err := os.Rename(temp, paths[i]); err != nil {
			staged = staged[i:]
			discard()
			return fmt.Errorf("commit %s: %w", entries[i].Key, err)
		}
	}
	return nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}
