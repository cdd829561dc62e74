package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// DefaultUploadDir is the directory uploads are written to when none is configured.
const DefaultUploadDir = "uploads"

// LocalObjectStore writes objects into a single directory on disk.
type LocalObjectStore struct {
	dir     string
	baseDir string
}

var _ ObjectStore = (*LocalObjectStore)(nil)

func NewLocalObjectStore(dir string) (*LocalObjectStore, error) {
	if dir == "" {
		dir = DefaultUploadDir
	}
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}

	return &LocalObjectStore{dir: filepath.ToSlash(filepath.Clean(dir)), baseDir: baseDir}, nil
}

// Dir returns the absolute directory objects are written to.
func (s *LocalObjectStore) Dir() string {
	return s.baseDir
}

// Put writes data to <dir>/<name> and returns "<dir>/<name>" as given at
// construction. name must be a plain file name.
func (s *LocalObjectStore) Put(_ context.Context, name, _ string, data io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid object name %q", name)
	}

	if err := os.MkdirAll(s.baseDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.baseDir, err)
	}

	fullPath := filepath.Join(s.baseDir, name)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}

	if _, err := io.Copy(dst, data); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close file %s: %w", fullPath, err)
	}

	return path.Join(s.dir, name), nil
}
