package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"time"
)

// Citation is a reference to an external source.
// It is held either by a Document directly or by one of its Annotations.
type Citation struct {
	// ID is derived from the citation content, see CitationID.
	ID string

	// Text is the cited passage.
	Text string

	// Source names the work being cited.
	Source string

	// Page is the page number, if known.
	Page *int

	// Section is the section label, empty if unknown.
	Section string

	// URL locates the source online, empty if unknown.
	URL string

	// CreatedAt is when the citation was created.
	CreatedAt time.Time
}

// CitationID returns the content-derived identity of a citation.
// Identical (text, source, page, section, url) tuples always yield the same
// ID so that re-creating a citation deduplicates naturally.
func CitationID(text, source string, page *int, section, url string) string {
	pageField := ""
	if page != nil {
		pageField = strconv.Itoa(*page)
	}
	// each field is length-prefixed so no two tuples hash the same bytes
	h := sha256.New()
	var size [4]byte
	for _, field := range []string{text, source, pageField, section, url} {
		binary.BigEndian.PutUint32(size[:], uint32(len(field)))
		h.Write(size[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// ToMap converts the citation into its nested-map form.
func (c Citation) ToMap() map[string]any {
	return map[string]any{
		"id":         c.ID,
		"text":       c.Text,
		"source":     c.Source,
		"page":       optionalInt(c.Page),
		"section":    optionalString(c.Section),
		"url":        optionalString(c.URL),
		"created_at": formatTime(c.CreatedAt),
	}
}

func citationMaps(citations []Citation) []map[string]any {
	out := make([]map[string]any, len(citations))
	for i := range citations {
		out[i] = citations[i].ToMap()
	}
	return out
}

// removeCitation drops the most recently added citation with the given ID.
// Citation IDs are content-derived, so the same citation may appear twice.
func removeCitation(citations []Citation, id string) ([]Citation, bool) {
	for i := len(citations) - 1; i >= 0; i-- {
		if citations[i].ID == id {
			rest := append(citations[:i:i], citations[i+1:]...)
			if len(rest) == 0 {
				rest = nil
			}
			return rest, true
		}
	}
	return citations, false
}

// formatTime renders timestamps as ISO-8601 text.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
