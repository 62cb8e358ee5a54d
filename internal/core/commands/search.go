package commands

import (
	"context"
	"slices"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// SearchDocuments runs a search and stores the results in the workspace
// under the query string.
type SearchDocuments struct {
	deps        Deps
	workspaceID string
	query       string
	opts        domain.SearchOptions

	previous    []domain.SearchResult
	hadPrevious bool
	results     []domain.SearchResult
}

// NewSearchDocuments creates a SearchDocuments command.
func NewSearchDocuments(deps Deps, workspaceID, query string, opts domain.SearchOptions) (*SearchDocuments, error) {
	if err := deps.require(false, true); err != nil {
		return nil, err
	}
	if err := validateInput(struct {
		WorkspaceID string                `validate:"required"`
		Query       string                `validate:"required"`
		Provider    domain.SearchProvider `validate:"search_provider"`
		MaxResults  int                   `validate:"gte=0"`
	}{workspaceID, query, opts.Provider, opts.MaxResults}); err != nil {
		return nil, err
	}
	return &SearchDocuments{deps: deps, workspaceID: workspaceID, query: query, opts: opts}, nil
}

// Name returns the command name.
func (c *SearchDocuments) Name() string { return NameSearchDocuments }

// Results returns the results of the last Execute.
func (c *SearchDocuments) Results() []domain.SearchResult { return c.results }

// Execute snapshots any earlier results for the query and stores new ones.
func (c *SearchDocuments) Execute(ctx context.Context) error {
	ws, err := c.deps.Dialogue.GetContext(ctx, c.workspaceID)
	if err != nil {
		return err
	}

	previous, had := ws.SearchResults(c.query)
	results, err := c.deps.Search.Search(ctx, c.query, ws.Documents(), c.opts)
	if err != nil {
		return err
	}
	if err := c.deps.Dialogue.StoreSearchResults(ctx, c.workspaceID, c.query, results); err != nil {
		return err
	}

	c.previous, c.hadPrevious = slices.Clone(previous), had
	c.results = results
	return nil
}

// Undo restores the earlier results, or clears the query if there were none.
func (c *SearchDocuments) Undo(ctx context.Context) error {
	if c.hadPrevious {
		return c.deps.Dialogue.StoreSearchResults(ctx, c.workspaceID, c.query, c.previous)
	}
	return c.deps.Dialogue.ClearSearchResults(ctx, c.workspaceID, c.query)
}
