package services

import (
	"slices"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/logger"
)

// Filter keys recognised by ParseFilters.
const (
	FilterTags     = "tags"
	FilterDateFrom = "date_from"
	FilterDateTo   = "date_to"
	FilterHasFile  = "has_file"
)

// ParseFilters converts the mapping form of search filters.
// Unrecognised keys and malformed values are ignored.
func ParseFilters(raw map[string]any) domain.SearchFilters {
	var f domain.SearchFilters
	for key, value := range raw {
		switch key {
		case FilterTags:
			f.Tags = parseTags(value)
		case FilterDateFrom:
			f.DateFrom = parseBound(value, false)
		case FilterDateTo:
			f.DateTo = parseBound(value, true)
		case FilterHasFile:
			if b, ok := value.(bool); ok {
				f.HasFile = &b
			}
		default:
			logger.Debug("Ignoring unknown search filter %q", key)
		}
	}
	return f
}

func parseTags(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		var tags []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	default:
		return nil
	}
}

// ParseDateBound parses an ISO-8601 timestamp or calendar date.
// A bare date used as an upper bound covers the whole day.
func ParseDateBound(s string, upper bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if dt, err := strfmt.ParseDateTime(s); err == nil {
		return time.Time(dt), true
	}
	d, err := time.Parse(strfmt.RFC3339FullDate, s)
	if err != nil {
		logger.Debug("Ignoring malformed date filter %q", s)
		return time.Time{}, false
	}
	if upper {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, true
}

func parseBound(value any, upper bool) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case string:
		if t, ok := ParseDateBound(v, upper); ok {
			return &t
		}
	}
	return nil
}

// applyFilters keeps the documents matching every set filter, in order.
func applyFilters(docs []*domain.Document, f domain.SearchFilters) []*domain.Document {
	if f.IsEmpty() {
		return docs
	}
	kept := make([]*domain.Document, 0, len(docs))
	for _, doc := range docs {
		if matchesFilters(doc, f) {
			kept = append(kept, doc)
		}
	}
	return kept
}

func matchesFilters(doc *domain.Document, f domain.SearchFilters) bool {
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, doc.HasTag) {
		return false
	}
	if f.DateFrom != nil && doc.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && doc.CreatedAt.After(*f.DateTo) {
		return false
	}
	if f.HasFile != nil && doc.HasFile() != *f.HasFile {
		return false
	}
	return true
}
