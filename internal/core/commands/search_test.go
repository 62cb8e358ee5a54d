package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

func TestSearchDocuments_StoresResults(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Story", "Once upon a time")

	cmd, err := NewSearchDocuments(f.deps, f.ws.ID, "upon", domain.SearchOptions{})
	f.execute(t, cmd, err)

	results := cmd.Results()
	require.Len(t, results, 1)
	assert.Equal(t, doc.ID, results[0].DocumentID)
	assert.Equal(t, &domain.MatchPosition{Start: 5, End: 9}, results[0].Position)
	stored, ok := f.ws.SearchResults("upon")
	require.True(t, ok)
	assert.Equal(t, results, stored)
}

func TestSearchDocuments_UndoClearsQuery(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "Story", "Once upon a time")
	f.ws.StoreSearchResults("other", []domain.SearchResult{{DocumentID: "x"}})

	cmd, err := NewSearchDocuments(f.deps, f.ws.ID, "upon", domain.SearchOptions{})
	f.execute(t, cmd, err)
	require.NoError(t, f.history.Undo(f.ctx))

	_, ok := f.ws.SearchResults("upon")
	assert.False(t, ok)
	_, ok = f.ws.SearchResults("other")
	assert.True(t, ok, "other queries are untouched")
}

func TestSearchDocuments_UndoRestoresEarlierResults(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "Story", "Once upon a time")
	earlier := []domain.SearchResult{{DocumentID: "old", RelevanceScore: 0.1}}
	f.ws.StoreSearchResults("upon", earlier)

	cmd, err := NewSearchDocuments(f.deps, f.ws.ID, "upon", domain.SearchOptions{})
	f.execute(t, cmd, err)
	require.NoError(t, f.history.Undo(f.ctx))

	stored, ok := f.ws.SearchResults("upon")
	require.True(t, ok)
	assert.Equal(t, earlier, stored)
}

func TestSearchDocuments_Filters(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "One", "shared words", "keep")
	tagged := f.addDocument(t, "Two", "shared words", "keep", "extra")

	cmd, err := NewSearchDocuments(f.deps, f.ws.ID, "shared", domain.SearchOptions{
		Filters: domain.SearchFilters{Tags: []string{"extra"}},
	})
	f.execute(t, cmd, err)

	require.Len(t, cmd.Results(), 1)
	assert.Equal(t, tagged.ID, cmd.Results()[0].DocumentID)
}
