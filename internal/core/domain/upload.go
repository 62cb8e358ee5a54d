package domain

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Upload is a file payload supplied by a caller.
// Open may be called more than once; each call yields the full payload,
// which lets a redone command write the file again.
type Upload interface {
	// Name is the original file name.
	Name() string

	// ContentType is the declared MIME type.
	ContentType() string

	// Open returns a fresh reader over the payload.
	Open() (io.ReadCloser, error)
}

// BytesUpload is an in-memory Upload.
type BytesUpload struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Name returns the original file name.
func (u BytesUpload) Name() string { return u.FileName }

// ContentType returns the declared MIME type.
func (u BytesUpload) ContentType() string { return u.MIMEType }

// Open returns a reader over the payload.
func (u BytesUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.Data)), nil
}

// PathUpload is an Upload backed by a file on disk.
// The source file is read, never moved.
type PathUpload struct {
	Path     string
	FileName string
	MIMEType string
}

// Name returns FileName, or the base name of Path when unset.
func (u PathUpload) Name() string {
	if u.FileName != "" {
		return u.FileName
	}
	return filepath.Base(u.Path)
}

// ContentType returns MIMEType, or a guess from the file extension.
func (u PathUpload) ContentType() string {
	if u.MIMEType != "" {
		return u.MIMEType
	}
	if t := mime.TypeByExtension(filepath.Ext(u.Path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Open opens the source file.
func (u PathUpload) Open() (io.ReadCloser, error) {
	return os.Open(u.Path)
}
