package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/custodia-labs/vibe/internal/core/ports/driven"
)

// mockFileStore implements driven.FileStore in memory for testing.
type mockFileStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
	removed  []string
	writes   []string
}

var _ driven.FileStore = (*mockFileStore)(nil)

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string][]byte)}
}

func (m *mockFileStore) Ensure(_ context.Context) error { return nil }

func (m *mockFileStore) Write(_ context.Context, name string, r io.Reader) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return "", 0, m.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	path := "mem/" + name
	m.files[path] = data
	m.writes = append(m.writes, name)
	return path, int64(len(data)), nil
}

func (m *mockFileStore) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *mockFileStore) Exists(_ context.Context, pathOrName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[pathOrName]; ok {
		return true
	}
	_, ok := m.files["mem/"+pathOrName]
	return ok
}

// brokenUpload fails to open.
type brokenUpload struct{}

func (brokenUpload) Name() string                 { return "broken.txt" }
func (brokenUpload) ContentType() string          { return "text/plain" }
func (brokenUpload) Open() (io.ReadCloser, error) { return nil, errors.New("permission denied") }
