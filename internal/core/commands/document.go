package commands

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
)

// Command names.
const (
	NameAddDocument      = "add_document"
	NameCreateDocument   = "create_document"
	NameUpdateDocument   = "update_document"
	NameAddAnnotation    = "add_annotation"
	NameRemoveAnnotation = "remove_annotation"
	NameAddCitation      = "add_citation"
	NameAddTag           = "add_tag"
	NameRemoveTag        = "remove_tag"
	NameSearchDocuments  = "search_documents"
)

// AddDocument places an existing document in a workspace.
type AddDocument struct {
	deps        Deps
	workspaceID string
	doc         *domain.Document

	// replaced is a document with the same ID that the add displaced.
	replaced *domain.Document
}

// NewAddDocument creates an AddDocument command.
func NewAddDocument(deps Deps, workspaceID string, doc *domain.Document) (*AddDocument, error) {
	if err := deps.require(false, false); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is required", domain.ErrInvalidInput)
	}
	if err := validateInput(struct {
		WorkspaceID string `validate:"required"`
		DocumentID  string `validate:"required"`
	}{workspaceID, doc.ID}); err != nil {
		return nil, err
	}
	return &AddDocument{deps: deps, workspaceID: workspaceID, doc: doc}, nil
}

// Name returns the command name.
func (c *AddDocument) Name() string { return NameAddDocument }

// Execute adds the document.
func (c *AddDocument) Execute(ctx context.Context) error {
	ws, err := c.deps.Dialogue.GetContext(ctx, c.workspaceID)
	if err != nil {
		return err
	}
	c.replaced, _ = ws.Document(c.doc.ID)
	ws.AddDocument(c.doc)
	return nil
}

// Undo removes the document, restoring any document it displaced.
func (c *AddDocument) Undo(ctx context.Context) error {
	ws, err := c.deps.Dialogue.GetContext(ctx, c.workspaceID)
	if err != nil {
		return err
	}
	if c.replaced != nil {
		ws.AddDocument(c.replaced)
		return nil
	}
	if !ws.RemoveDocument(c.doc.ID) {
		return fmt.Errorf("document %s: %w", c.doc.ID, domain.ErrNotFound)
	}
	return nil
}

// CreateDocument builds a new document and adds it to a workspace.
// Redo re-adds the same document, writing its file again from the upload.
type CreateDocument struct {
	deps        Deps
	workspaceID string
	input       driving.DocumentInput

	doc *domain.Document
}

// NewCreateDocument creates a CreateDocument command.
func NewCreateDocument(deps Deps, workspaceID string, in driving.DocumentInput) (*CreateDocument, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	if err := validateInput(struct {
		WorkspaceID string `validate:"required"`
		Title       string `validate:"required"`
	}{workspaceID, in.Title}); err != nil {
		return nil, err
	}
	in.Metadata = maps.Clone(in.Metadata)
	return &CreateDocument{deps: deps, workspaceID: workspaceID, input: in}, nil
}

// Name returns the command name.
func (c *CreateDocument) Name() string { return NameCreateDocument }

// Document returns the created document, nil before the first Execute.
func (c *CreateDocument) Document() *domain.Document { return c.doc }

// Execute creates the document on first run and re-adds it on redo.
func (c *CreateDocument) Execute(ctx context.Context) error {
	ws, err := c.deps.Dialogue.GetContext(ctx, c.workspaceID)
	if err != nil {
		return err
	}

	if c.doc == nil {
		doc, err := c.deps.Documents.CreateDocument(ctx, c.input)
		if err != nil {
			return err
		}
		c.doc = doc
	} else if c.input.Upload != nil {
		updated := c.doc.UpdatedAt
		if _, err := c.deps.Documents.AttachFile(ctx, c.doc, c.input.Upload); err != nil {
			return err
		}
		c.doc.UpdatedAt = updated
	}

	ws.AddDocument(c.doc)
	return nil
}

// Undo removes the document and deletes its file.
func (c *CreateDocument) Undo(ctx context.Context) error {
	ws, err := c.deps.Dialogue.GetContext(ctx, c.workspaceID)
	if err != nil {
		return err
	}
	if c.doc == nil {
		return fmt.Errorf("document: %w", domain.ErrNotFound)
	}
	if _, ok := ws.Document(c.doc.ID); !ok {
		return fmt.Errorf("document %s: %w", c.doc.ID, domain.ErrNotFound)
	}
	if err := c.deps.Documents.DiscardFile(ctx, c.doc.File); err != nil {
		return err
	}
	ws.RemoveDocument(c.doc.ID)
	return nil
}

// UpdateDocument applies a partial update to a document.
type UpdateDocument struct {
	deps   Deps
	target Target
	update driving.DocumentUpdate

	before  documentState
	written *domain.Attachment
}

// documentState is the part of a document an update can change.
type documentState struct {
	title     string
	content   string
	tags      map[string]struct{}
	file      *domain.Attachment
	updatedAt time.Time
}

// NewUpdateDocument creates an UpdateDocument command.
func NewUpdateDocument(deps Deps, target Target, upd driving.DocumentUpdate) (*UpdateDocument, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	if err := validateInput(target); err != nil {
		return nil, err
	}
	if upd.Title != nil && *upd.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}
	return &UpdateDocument{deps: deps, target: target, update: upd}, nil
}

// Name returns the command name.
func (c *UpdateDocument) Name() string { return NameUpdateDocument }

// Execute snapshots the document and applies the update.
// A replaced file is kept on disk so Undo can restore it.
func (c *UpdateDocument) Execute(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.target)
	if err != nil {
		return err
	}

	before := documentState{
		title:     doc.Title,
		content:   doc.Content,
		tags:      maps.Clone(doc.Tags),
		file:      doc.File,
		updatedAt: doc.UpdatedAt,
	}

	upd := c.update
	upd.RetainReplacedFile = true
	if _, err := c.deps.Documents.UpdateDocument(ctx, doc, upd); err != nil {
		return err
	}

	c.before = before
	c.written = nil
	if c.update.Upload != nil {
		c.written = doc.File
	}
	return nil
}

// Release deletes the file this update replaced, unless the document
// holds it again.
func (c *UpdateDocument) Release(ctx context.Context) error {
	if c.written == nil || c.before.file == nil {
		return nil
	}
	if _, doc, err := c.deps.document(ctx, c.target); err == nil && doc.File != nil && doc.File.Path == c.before.file.Path {
		return nil
	}
	if err := c.deps.Documents.DiscardFile(ctx, c.before.file); err != nil {
		return err
	}
	c.before.file = nil
	return nil
}

// Undo restores the snapshot and deletes any file the update wrote.
func (c *UpdateDocument) Undo(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.target)
	if err != nil {
		return err
	}
	if err := c.deps.Documents.DiscardFile(ctx, c.written); err != nil {
		return err
	}
	c.written = nil

	doc.Title = c.before.title
	doc.Content = c.before.content
	doc.Tags = c.before.tags
	doc.File = c.before.file
	doc.UpdatedAt = c.before.updatedAt
	return nil
}
