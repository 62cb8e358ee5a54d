package driven

import (
	"context"
	"io"
)

// FileStore stores uploaded file payloads.
// Backed by a local directory.
type FileStore interface {
	// Ensure creates the storage location if it does not exist.
	Ensure(ctx context.Context) error

	// Write stores the payload under name and returns its path and size.
	// On any failure the partially written file is removed.
	Write(ctx context.Context, name string, r io.Reader) (path string, size int64, err error)

	// Remove deletes a stored file. A missing file is not an error.
	Remove(ctx context.Context, path string) error

	// Exists reports whether a stored file exists.
	// For a bare name the store's own location is checked.
	Exists(ctx context.Context, pathOrName string) bool
}
