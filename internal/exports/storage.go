package exports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

// ErrNotReady is returned while an export has no stored file yet.
var ErrNotReady = fmt.Errorf("exports: file not ready: %w", httpx.ErrNotFound)

// Storage keeps finished exports as <exportID>_<filename> in one directory.
type Storage struct {
	dir string
}

// NewStorage returns storage rooted at dir. The directory is created on the
// first write.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the storage directory.
func (s *Storage) Dir() string { return s.dir }

// Write stores body atomically and returns the final path.
func (s *Storage) Write(id uuid.UUID, filename string, body []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("exports: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("exports: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("exports: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("exports: close: %w", err)
	}
	final := filepath.Join(s.dir, id.String()+"_"+httpx.SafeFilename(filename))
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("exports: rename: %w", err)
	}
	return final, nil
}

// Find returns the stored path and download name of an export.
func (s *Storage) Find(id uuid.UUID) (string, string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", ErrNotReady
		}
		return "", "", fmt.Errorf("exports: list: %w", err)
	}
	prefix := id.String() + "_"
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		return filepath.Join(s.dir, e.Name()), strings.TrimPrefix(e.Name(), prefix), nil
	}
	return "", "", ErrNotReady
}

// Prune removes stored exports last modified before cutoff.
func (s *Storage) Prune(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("exports: list: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, fmt.Errorf("exports: prune %s: %w", e.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}
