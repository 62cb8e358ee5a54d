package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

func TestAddAnnotation_KeepsIdentityAcrossRedo(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "body")

	cmd, err := NewAddAnnotation(f.deps, AnnotationInput{
		Target:   f.target(doc),
		Type:     domain.AnnotationComment,
		Text:     "check this",
		Position: map[string]any{"start": 0, "end": 4},
		UserID:   "u1",
	})
	f.execute(t, cmd, err)
	a := cmd.Annotation()
	require.NotNil(t, a)
	assert.Equal(t, doc.ID, a.DocumentID)
	assert.Equal(t, []*domain.Annotation{a}, doc.Annotations)

	require.NoError(t, f.history.Undo(f.ctx))
	assert.Empty(t, doc.Annotations)

	require.NoError(t, f.history.Redo(f.ctx))
	require.Len(t, doc.Annotations, 1)
	assert.Same(t, a, doc.Annotations[0])
}

func TestAddAnnotation_InvalidType(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "")

	_, err := NewAddAnnotation(f.deps, AnnotationInput{Target: f.target(doc), Type: "doodle"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveAnnotation_UndoRestoresIndex(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "")
	var ids []string
	for _, text := range []string{"first", "second", "third"} {
		a := f.deps.Documents.CreateAnnotation(doc.ID, domain.AnnotationNote, text, nil, "", "", nil)
		doc.AddAnnotation(a)
		ids = append(ids, a.ID)
	}
	before := doc.Clone()

	cmd, err := NewRemoveAnnotation(f.deps, f.target(doc), ids[1])
	f.execute(t, cmd, err)
	require.Len(t, doc.Annotations, 2)

	require.NoError(t, f.history.Undo(f.ctx))

	require.Len(t, doc.Annotations, 3)
	assert.Equal(t, ids[1], doc.Annotations[1].ID)
	assert.Equal(t, before, doc)
}

func TestRemoveAnnotation_Unknown(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "")

	cmd, err := NewRemoveAnnotation(f.deps, f.target(doc), "missing")
	require.NoError(t, err)

	assert.ErrorIs(t, f.history.Execute(f.ctx, cmd), domain.ErrNotFound)
	assert.Equal(t, 0, f.history.Len())
}

func TestAddCitation_ToDocument(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "")
	page := 12

	cmd, err := NewAddCitation(f.deps, CitationInput{
		Target: f.target(doc),
		Text:   "It was the best of times",
		Source: "A Tale of Two Cities",
		Page:   &page,
		URL:    "https://example.org/tale",
	})
	f.execute(t, cmd, err)

	c := cmd.Citation()
	assert.Equal(t, domain.CitationID(c.Text, c.Source, c.Page, c.Section, c.URL), c.ID)
	assert.Equal(t, []domain.Citation{c}, doc.Citations)

	require.NoError(t, f.history.Undo(f.ctx))
	assert.Nil(t, doc.Citations)
}

func TestAddCitation_ToAnnotation(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "")
	a := f.deps.Documents.CreateAnnotation(doc.ID, domain.AnnotationNote, "note", nil, "", "", nil)
	doc.AddAnnotation(a)
	annotationUpdated := a.UpdatedAt
	docUpdated := doc.UpdatedAt

	cmd, err := NewAddCitation(f.deps, CitationInput{
		Target: f.target(doc), Text: "quote", Source: "book", AnnotationID: a.ID,
	})
	f.execute(t, cmd, err)

	assert.Len(t, a.Citations, 1)
	assert.Empty(t, doc.Citations)

	require.NoError(t, f.history.Undo(f.ctx))

	assert.Nil(t, a.Citations)
	assert.Equal(t, annotationUpdated, a.UpdatedAt)
	assert.Equal(t, docUpdated, doc.UpdatedAt)
}

func TestAddCitation_UnknownAnnotation(t *testing.T) {
	f := newFixture(t)
	doc := f.addDocument(t, "Brief", "")

	cmd, err := NewAddCitation(f.deps, CitationInput{
		Target: f.target(doc), Text: "quote", Source: "book", AnnotationID: "missing",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.history.Execute(f.ctx, cmd), domain.ErrNotFound)
	assert.Nil(t, doc.Citations)
}
