package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestFileStore_Ensure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store := NewFileStore(dir)

	require.NoError(t, store.Ensure(context.Background()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, store.Dir())
}

func TestFileStore_Write(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	path, size, err := store.Write(context.Background(), "doc_a.txt", strings.NewReader("hello"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc_a.txt"), path)
	assert.Equal(t, int64(5), size)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFileStore_Write_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewFileStore(dir)

	_, _, err := store.Write(context.Background(), "a.txt", strings.NewReader("x"))

	require.NoError(t, err)
	assert.True(t, store.Exists(context.Background(), "a.txt"))
}

func TestFileStore_Write_InvalidName(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, name := range []string{"", ".", "..", "../escape.txt", "sub/dir.txt"} {
		_, _, err := store.Write(context.Background(), name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestFileStore_Write_ReaderFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	_, _, err := store.Write(context.Background(), "broken.txt", failingReader{})

	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_Write_CancelledContext(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Write(ctx, "a.txt", strings.NewReader("x"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_Remove(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()
	path, _, err := store.Write(ctx, "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, path))
	assert.False(t, store.Exists(ctx, path))

	// Already gone.
	assert.NoError(t, store.Remove(ctx, path))
}

func TestFileStore_Exists(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()
	path, _, err := store.Write(ctx, "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	assert.True(t, store.Exists(ctx, "a.txt"))
	assert.True(t, store.Exists(ctx, path))
	assert.False(t, store.Exists(ctx, "b.txt"))
	assert.False(t, store.Exists(ctx, ""))
	assert.False(t, store.Exists(ctx, dir))
}
