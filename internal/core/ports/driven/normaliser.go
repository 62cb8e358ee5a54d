package driven

import (
	"context"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// Normaliser extracts searchable text from files of specific MIME types.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text from raw. It returns an error wrapping
	// domain.ErrUnsupportedFormat if the payload is not of its format.
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, error)
}

// NormaliseResult is the text extracted from a file.
type NormaliseResult struct {
	// Title is a title found inside the file, empty if none.
	Title string

	// Content is the plain text.
	Content string

	// Format names the normaliser that produced the result, e.g. "markdown".
	Format string
}

// NormaliserRegistry selects the normaliser for a file by MIME type.
type NormaliserRegistry interface {
	// Normalise extracts text using the best matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
	SupportedMIMETypes() []string
}
