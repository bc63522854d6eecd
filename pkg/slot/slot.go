// Package slot persists a single JSON value under a fixed name on local disk.
package slot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileMode = 0o644

type Slot interface {
	// Load decodes the stored value into v. It reports false when nothing is stored.
	Load(v any) (bool, error)
	Save(v any) error
	Clear() error
}

type FileSlot struct {
	mu   sync.Mutex
	path string
}

var _ Slot = (*FileSlot)(nil)

// NewFileSlot returns the slot `name` stored as <dir>/<name>.json.
func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{path: filepath.Join(dir, name+".json")}
}

func (f *FileSlot) Path() string {
	return f.path
}

func (f *FileSlot) Load(v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading slot %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding slot %s: %w", f.path, err)
	}
	return true, nil
}

// Save replaces the stored value. The write goes through a temp file so a
// crash never leaves a truncated slot behind.
func (f *FileSlot) Save(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating slot dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", f.path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing slot %s: %w", f.path, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing slot %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing slot %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("writing slot %s: %w", f.path, err)
	}
	return nil
}

func (f *FileSlot) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing slot %s: %w", f.path, err)
	}
	return nil
}
