package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists the token as a one-entry JSON object {"token": "..."} so it
// survives process restarts. Writes replace the file atomically.
type File struct {
	mu   sync.RWMutex
	path string
	mem  Memory
}

// NewFile opens the store at path, loading an existing token if the file is present.
// A missing file yields an empty store.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the location of the backing file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mem.Get()
}

func (f *File) Set(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.save(token); err != nil {
		return err
	}
	return f.mem.Set(token)
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read token file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var snap map[string]string
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse token file: %w", err)
	}
	if token, ok := snap[Key]; ok {
		_ = f.mem.Set(token)
	}
	return nil
}

func (f *File) save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.Marshal(map[string]string{Key: token})
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
