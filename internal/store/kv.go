// Package store persists the dispatcher collection behind a flat key-value
// contract and publishes change notifications so independent observers can
// re-read it.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is the durable key-value contract the aggregate store is built on.
// Get reports found=false for keys that were never set.
type KV interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// FileKV stores each key as a file in a directory.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

// NewFileKV creates a FileKV rooted at dir, creating it if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the value stored under key.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the value under key. The write goes through a temp file and
// rename so a crash mid-write cannot leave a torn collection behind.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-memory KV for tests.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the stored value, if any.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

var (
	_ KV = (*FileKV)(nil)
	_ KV = (*MemoryKV)(nil)
)
