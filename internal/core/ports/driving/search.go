package driving

import (
	"context"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// SearchService provides search over a set of documents.
type SearchService interface {
	// Search filters docs and ranks them against query using opts.Provider.
	// Results are ordered best match first.
	Search(ctx context.Context, query string, docs []*domain.Document, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
