// Package local stores uploaded files in a directory on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/vibe/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// ErrInvalidName is returned for names that are not a single path element.
var ErrInvalidName = errors.New("invalid file name")

// FileStore keeps files in a single directory.
// Writes go to a temporary file that is renamed into place once complete,
// so a stored name never refers to a partial payload.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
// The directory is created on first write or by Ensure.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Ensure creates the storage directory.
func (s *FileStore) Ensure(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}
	return nil
}

// Write stores r under name and returns the stored path and size.
func (s *FileStore) Write(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := s.Ensure(ctx); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("close %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("rename %s: %w", name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("stat %s: %w", name, err)
	}
	return path, info.Size(), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *FileStore) Remove(_ context.Context, path string) error {
	err := os.Remove(s.resolve(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a regular file exists at the path, or under the
// name in the storage directory.
func (s *FileStore) Exists(_ context.Context, pathOrName string) bool {
	if pathOrName == "" {
		return false
	}
	info, err := os.Stat(s.resolve(pathOrName))
	return err == nil && info.Mode().IsRegular()
}

func (s *FileStore) resolve(pathOrName string) string {
	if filepath.Base(pathOrName) == pathOrName {
		return filepath.Join(s.dir, pathOrName)
	}
	return pathOrName
}
