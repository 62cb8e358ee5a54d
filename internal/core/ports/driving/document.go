package driving

import (
	"context"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// DocumentService constructs and mutates documents and their attachments.
type DocumentService interface {
	// CreateDocument builds a new document, storing the upload if one is given.
	// No document is returned if the upload cannot be stored.
	CreateDocument(ctx context.Context, in DocumentInput) (*domain.Document, error)

	// UpdateDocument applies the non-nil fields of upd and returns the
	// attachment replaced by a new upload, if any.
	UpdateDocument(ctx context.Context, doc *domain.Document, upd DocumentUpdate) (*domain.Attachment, error)

	// AttachFile stores an upload and attaches it to doc, replacing any
	// previous attachment without removing its file.
	AttachFile(ctx context.Context, doc *domain.Document, upload domain.Upload) (*domain.Attachment, error)

	// DiscardFile removes a stored attachment's file without touching any document.
	DiscardFile(ctx context.Context, att *domain.Attachment) error

	// DeleteFile removes the attached file and clears the attachment.
	// Returns false if the document has no attachment.
	DeleteFile(ctx context.Context, doc *domain.Document) (bool, error)

	// FilePath returns the attachment path if the file still exists.
	FilePath(ctx context.Context, doc *domain.Document) (string, bool)

	// CreateCitation builds a citation with a content-derived ID.
	CreateCitation(text, source string, page *int, section, url string) domain.Citation

	// CreateAnnotation builds an annotation with a fresh random ID.
	CreateAnnotation(documentID string, typ domain.AnnotationType, text string, position map[string]any, userID, color string, citations []domain.Citation) *domain.Annotation

	// AddAnnotationToDocument appends an annotation.
	AddAnnotationToDocument(doc *domain.Document, a *domain.Annotation)

	// RemoveAnnotationFromDocument removes an annotation by ID.
	RemoveAnnotationFromDocument(doc *domain.Document, annotationID string) bool

	// AddCitationToDocument appends a document-level citation.
	AddCitationToDocument(doc *domain.Document, c domain.Citation)

	// AddTagToDocument adds a tag.
	AddTagToDocument(doc *domain.Document, tag string)

	// RemoveTagFromDocument removes a tag.
	RemoveTagFromDocument(doc *domain.Document, tag string) bool

	// AddComment appends a legacy free-text comment.
	AddComment(doc *domain.Document, comment string)
}

// DocumentInput holds the fields of a new document.
type DocumentInput struct {
	Title    string
	Content  string
	Metadata map[string]any
	Tags     []string

	// Upload is the file to attach, nil for none.
	Upload domain.Upload
}

// DocumentUpdate describes a partial document update.
// Nil fields are left unchanged.
type DocumentUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string

	// Upload replaces the attached file, nil to keep it.
	Upload domain.Upload

	// RetainReplacedFile keeps the replaced file on disk.
	RetainReplacedFile bool
}
