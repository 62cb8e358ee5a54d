package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// AnnotationInput describes a new annotation.
type AnnotationInput struct {
	Target
	Type      domain.AnnotationType `validate:"required,annotation_type"`
	Text      string
	Position  map[string]any
	UserID    string
	Color     string
	Citations []domain.Citation
}

// AddAnnotation attaches a new annotation to a document.
// The annotation keeps its identity across undo and redo.
type AddAnnotation struct {
	deps  Deps
	input AnnotationInput

	annotation *domain.Annotation
	updatedAt  time.Time
}

// NewAddAnnotation creates an AddAnnotation command.
func NewAddAnnotation(deps Deps, in AnnotationInput) (*AddAnnotation, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	in.Position = maps.Clone(in.Position)
	in.Citations = slices.Clone(in.Citations)
	return &AddAnnotation{deps: deps, input: in}, nil
}

// Name returns the command name.
func (c *AddAnnotation) Name() string { return NameAddAnnotation }

// Annotation returns the created annotation, nil before the first Execute.
func (c *AddAnnotation) Annotation() *domain.Annotation { return c.annotation }

// Execute creates the annotation on first run and adds it to the document.
func (c *AddAnnotation) Execute(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.input.Target)
	if err != nil {
		return err
	}
	if c.annotation == nil {
		in := c.input
		c.annotation = c.deps.Documents.CreateAnnotation(
			in.DocumentID, in.Type, in.Text, in.Position, in.UserID, in.Color, in.Citations,
		)
	}
	c.updatedAt = doc.UpdatedAt
	c.deps.Documents.AddAnnotationToDocument(doc, c.annotation)
	return nil
}

// Undo removes the annotation.
func (c *AddAnnotation) Undo(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.input.Target)
	if err != nil {
		return err
	}
	if !c.deps.Documents.RemoveAnnotationFromDocument(doc, c.annotation.ID) {
		return fmt.Errorf("annotation %s: %w", c.annotation.ID, domain.ErrNotFound)
	}
	doc.UpdatedAt = c.updatedAt
	return nil
}

// RemoveAnnotation detaches an annotation from a document.
type RemoveAnnotation struct {
	deps         Deps
	target       Target
	annotationID string

	removed   *domain.Annotation
	index     int
	updatedAt time.Time
}

// NewRemoveAnnotation creates a RemoveAnnotation command.
func NewRemoveAnnotation(deps Deps, target Target, annotationID string) (*RemoveAnnotation, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	if err := validateInput(struct {
		Target
		AnnotationID string `validate:"required"`
	}{target, annotationID}); err != nil {
		return nil, err
	}
	return &RemoveAnnotation{deps: deps, target: target, annotationID: annotationID}, nil
}

// Name returns the command name.
func (c *RemoveAnnotation) Name() string { return NameRemoveAnnotation }

// Execute snapshots the annotation and its position, then removes it.
func (c *RemoveAnnotation) Execute(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.target)
	if err != nil {
		return err
	}
	a, i := doc.Annotation(c.annotationID)
	if a == nil {
		return fmt.Errorf("annotation %s: %w", c.annotationID, domain.ErrNotFound)
	}
	c.removed, c.index, c.updatedAt = a, i, doc.UpdatedAt
	c.deps.Documents.RemoveAnnotationFromDocument(doc, c.annotationID)
	return nil
}

// Undo puts the annotation back where it was.
func (c *RemoveAnnotation) Undo(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.target)
	if err != nil {
		return err
	}
	doc.InsertAnnotation(c.index, c.removed)
	doc.UpdatedAt = c.updatedAt
	return nil
}

// CitationInput describes a new citation.
// With AnnotationID set the citation is attached to that annotation,
// otherwise to the document.
type CitationInput struct {
	Target
	Text         string `validate:"required"`
	Source       string `validate:"required"`
	Page         *int   `validate:"omitempty,gte=0"`
	Section      string
	URL          string `validate:"omitempty,url"`
	AnnotationID string
}

// AddCitation attaches a citation to a document or one of its annotations.
type AddCitation struct {
	deps  Deps
	input CitationInput

	citation            domain.Citation
	docUpdatedAt        time.Time
	annotationUpdatedAt time.Time
}

// NewAddCitation creates an AddCitation command.
func NewAddCitation(deps Deps, in CitationInput) (*AddCitation, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return &AddCitation{deps: deps, input: in}, nil
}

// Name returns the command name.
func (c *AddCitation) Name() string { return NameAddCitation }

// Citation returns the created citation.
func (c *AddCitation) Citation() domain.Citation { return c.citation }

// Execute creates the citation and attaches it to its target.
func (c *AddCitation) Execute(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.input.Target)
	if err != nil {
		return err
	}

	var annotation *domain.Annotation
	if c.input.AnnotationID != "" {
		if annotation, _ = doc.Annotation(c.input.AnnotationID); annotation == nil {
			return fmt.Errorf("annotation %s: %w", c.input.AnnotationID, domain.ErrNotFound)
		}
	}

	in := c.input
	c.citation = c.deps.Documents.CreateCitation(in.Text, in.Source, in.Page, in.Section, in.URL)
	c.docUpdatedAt = doc.UpdatedAt

	if annotation != nil {
		c.annotationUpdatedAt = annotation.UpdatedAt
		annotation.AddCitation(c.citation)
		doc.Touch()
		return nil
	}
	c.deps.Documents.AddCitationToDocument(doc, c.citation)
	return nil
}

// Undo removes the citation from the target it was added to.
func (c *AddCitation) Undo(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.input.Target)
	if err != nil {
		return err
	}

	if c.input.AnnotationID != "" {
		annotation, _ := doc.Annotation(c.input.AnnotationID)
		if annotation == nil {
			return fmt.Errorf("annotation %s: %w", c.input.AnnotationID, domain.ErrNotFound)
		}
		if !annotation.RemoveCitation(c.citation.ID) {
			return fmt.Errorf("citation %s: %w", c.citation.ID, domain.ErrNotFound)
		}
		annotation.UpdatedAt = c.annotationUpdatedAt
	} else if !doc.RemoveCitation(c.citation.ID) {
		return fmt.Errorf("citation %s: %w", c.citation.ID, domain.ErrNotFound)
	}

	doc.UpdatedAt = c.docUpdatedAt
	return nil
}
