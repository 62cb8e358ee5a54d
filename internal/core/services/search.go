package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/logger"
	"github.com/custodia-labs/vibe/internal/metrics"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	titleScore   = 1.0
	contentScore = 0.8

	// contextRadius is the number of characters kept either side of a content match.
	contextRadius = 50
	ellipsis      = "..."

	semanticMarker = "[Semantic] "
	hybridMarker   = "[Hybrid] "
)

// strategy ranks documents against a query for one provider.
// Implementations truncate their own output to limit.
type strategy interface {
	search(query string, docs []*domain.Document, limit int) []domain.SearchResult
}

// SearchService filters documents and dispatches to a provider strategy.
type SearchService struct {
	strategies map[domain.SearchProvider]strategy
}

// NewSearchService creates a new search service.
func NewSearchService() *SearchService {
	local := localStrategy{}
	semantic := semanticStrategy{local: local}
	return &SearchService{
		strategies: map[domain.SearchProvider]strategy{
			domain.ProviderLocal:    local,
			domain.ProviderSemantic: semantic,
			domain.ProviderHybrid:   hybridStrategy{local: local, semantic: semantic},
			domain.ProviderExternal: local,
		},
	}
}

// Search filters docs and ranks them against query.
// Results are ordered best match first; equal scores keep document order.
func (s *SearchService) Search(
	ctx context.Context, query string, docs []*domain.Document, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	provider := opts.Provider
	if provider == "" {
		provider = domain.ProviderLocal
	}
	strat, ok := s.strategies[provider]
	if !ok {
		return nil, fmt.Errorf("search with %q: %w", provider, domain.ErrUnsupportedProvider)
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q, provider: %s, limit: %d", query, provider, opts.Limit())

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	start := time.Now()
	candidates := applyFilters(docs, opts.Filters)
	logger.Debug("Candidates after filters: %d of %d", len(candidates), len(docs))
	if provider == domain.ProviderExternal {
		logger.Debug("External provider unavailable, falling back to local search")
	}

	results := strat.search(query, candidates, opts.Limit())
	metrics.ObserveSearch(provider.String(), start, len(results))
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// localStrategy is case-insensitive substring matching over titles and content.
type localStrategy struct{}

func (localStrategy) search(query string, docs []*domain.Document, limit int) []domain.SearchResult {
	needle := lowerRunes(query)
	results := make([]domain.SearchResult, 0)

	for _, doc := range docs {
		if indexRunes(lowerRunes(doc.Title), needle) >= 0 {
			results = append(results, domain.SearchResult{
				DocumentID:     doc.ID,
				RelevanceScore: titleScore,
				MatchedText:    doc.Title,
				Context:        doc.Title,
			})
		}

		content := []rune(doc.Content)
		start := indexRunes(lowerRunes(doc.Content), needle)
		if start < 0 {
			continue
		}
		end := start + len(needle)
		results = append(results, domain.SearchResult{
			DocumentID:     doc.ID,
			RelevanceScore: contentScore,
			MatchedText:    string(content[start:end]),
			Context:        excerpt(content, start, end),
			Position:       &domain.MatchPosition{Start: start, End: end},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return truncate(results, limit)
}

// semanticStrategy stands in for embedding similarity search.
// It reuses local matching and marks each context.
type semanticStrategy struct {
	local localStrategy
}

func (s semanticStrategy) search(query string, docs []*domain.Document, limit int) []domain.SearchResult {
	results := s.local.search(query, docs, limit)
	for i := range results {
		results[i].Context = semanticMarker + results[i].Context
	}
	return results
}

// hybridStrategy merges local and semantic results, one per document.
type hybridStrategy struct {
	local    localStrategy
	semantic semanticStrategy
}

func (s hybridStrategy) search(query string, docs []*domain.Document, limit int) []domain.SearchResult {
	combined := append(s.local.search(query, docs, limit), s.semantic.search(query, docs, limit)...)

	seen := make(map[string]struct{}, len(combined))
	results := make([]domain.SearchResult, 0, len(combined))
	for _, r := range combined {
		if _, dup := seen[r.DocumentID]; dup {
			continue
		}
		seen[r.DocumentID] = struct{}{}
		r.Context = hybridMarker + r.Context
		results = append(results, r)
	}
	return truncate(results, limit)
}

// lowerRunes lowercases rune by rune so offsets in the result match the original.
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i, c := range r {
		r[i] = unicode.ToLower(c)
	}
	return r
}

// indexRunes returns the rune offset of the first occurrence of needle in haystack, or -1.
func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// excerpt returns content[start:end] padded by contextRadius characters,
// with an ellipsis on each side that was cut.
func excerpt(content []rune, start, end int) string {
	from := max(0, start-contextRadius)
	to := min(len(content), end+contextRadius)

	var b strings.Builder
	if from > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(content[from:to]))
	if to < len(content) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

func truncate(results []domain.SearchResult, limit int) []domain.SearchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
