package domain

import "time"

// DefaultMaxResults is used when SearchOptions.MaxResults is not positive.
const DefaultMaxResults = 10

// SearchResult represents a single search hit.
type SearchResult struct {
	// DocumentID is the matched document.
	DocumentID string

	// RelevanceScore is higher for better matches.
	RelevanceScore float64

	// MatchedText is the text that matched the query.
	MatchedText string

	// Context is the matched text with surrounding characters.
	Context string

	// PageNumber is the page of the match, if known.
	PageNumber *int

	// Position holds character offsets of a content match.
	Position *MatchPosition
}

// MatchPosition is a half-open character range [Start, End).
type MatchPosition struct {
	Start int
	End   int
}

// ToMap converts the result into its nested-map form.
func (r SearchResult) ToMap() map[string]any {
	var position any
	if r.Position != nil {
		position = map[string]any{"start": r.Position.Start, "end": r.Position.End}
	}
	return map[string]any{
		"document_id":     r.DocumentID,
		"relevance_score": r.RelevanceScore,
		"matched_text":    r.MatchedText,
		"context":         r.Context,
		"page_number":     optionalInt(r.PageNumber),
		"position":        position,
	}
}

// SearchFilters narrows the documents considered by a search.
// Zero values mean "no filter".
type SearchFilters struct {
	// Tags keeps documents sharing at least one tag.
	Tags []string

	// DateFrom keeps documents created at or after this instant.
	DateFrom *time.Time

	// DateTo keeps documents created at or before this instant.
	DateTo *time.Time

	// HasFile keeps documents whose attachment presence matches.
	HasFile *bool
}

// IsEmpty reports whether no filter is set.
func (f SearchFilters) IsEmpty() bool {
	return len(f.Tags) == 0 && f.DateFrom == nil && f.DateTo == nil && f.HasFile == nil
}

// SearchOptions configures a search.
type SearchOptions struct {
	// Provider selects the strategy. Empty means ProviderLocal.
	Provider SearchProvider

	// MaxResults caps the result list. Non-positive means DefaultMaxResults.
	MaxResults int

	// Filters narrows the candidate documents.
	Filters SearchFilters
}

// Limit returns the effective result cap.
func (o SearchOptions) Limit() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}
