package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested workspace, document, annotation or
	// citation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or missing input, such as a
	// document without a title.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFile indicates the document has no attached file.
	ErrNoFile = errors.New("document has no attached file")

	// ErrUnsupportedProvider indicates an unknown search provider name.
	ErrUnsupportedProvider = errors.New("unsupported search provider")

	// ErrUnsupportedFormat indicates no text can be extracted from a file.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
