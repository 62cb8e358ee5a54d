package domain

import (
	"maps"
	"slices"
	"time"
)

// Annotation is user markup applied to a document.
type Annotation struct {
	// ID is a random identity, unique per creation.
	ID string

	// Type classifies the annotation.
	Type AnnotationType

	// Text is the annotation body.
	Text string

	// Position locates the annotation within the document.
	// The schema is caller-defined (offsets or element identifiers) and is not validated.
	Position map[string]any

	// DocumentID is the owning document.
	DocumentID string

	// UserID is the author, empty if anonymous.
	UserID string

	// Color is an optional display colour.
	Color string

	// Citations attached to this annotation.
	Citations []Citation

	// CreatedAt is when the annotation was created.
	CreatedAt time.Time

	// UpdatedAt is when the annotation was last changed.
	UpdatedAt time.Time
}

// AddCitation appends a citation to the annotation.
func (a *Annotation) AddCitation(c Citation) {
	a.Citations = append(a.Citations, c)
	a.UpdatedAt = time.Now()
}

// RemoveCitation removes the latest citation with the given ID.
// Returns false, changing nothing, if no such citation exists.
func (a *Annotation) RemoveCitation(id string) bool {
	var ok bool
	a.Citations, ok = removeCitation(a.Citations, id)
	if ok {
		a.UpdatedAt = time.Now()
	}
	return ok
}

// Clone returns a deep copy of the annotation.
func (a *Annotation) Clone() *Annotation {
	c := *a
	c.Position = maps.Clone(a.Position)
	c.Citations = slices.Clone(a.Citations)
	return &c
}

// ToMap converts the annotation into its nested-map form.
func (a *Annotation) ToMap() map[string]any {
	return map[string]any{
		"id":          a.ID,
		"type":        a.Type.String(),
		"text":        a.Text,
		"position":    a.Position,
		"document_id": a.DocumentID,
		"user_id":     optionalString(a.UserID),
		"color":       optionalString(a.Color),
		"citations":   citationMaps(a.Citations),
		"created_at":  formatTime(a.CreatedAt),
		"updated_at":  formatTime(a.UpdatedAt),
	}
}
