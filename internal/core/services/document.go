package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/logger"
	"github.com/custodia-labs/vibe/internal/metrics"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// ErrNoFileStore is returned when a file operation is attempted without a file store.
var ErrNoFileStore = errors.New("file store not configured")

// DocumentService constructs and mutates documents.
type DocumentService struct {
	files driven.FileStore
}

// NewDocumentService creates a new document service.
// The file store may be nil, in which case uploads are rejected.
func NewDocumentService(files driven.FileStore) *DocumentService {
	return &DocumentService{files: files}
}

// CreateDocument builds a new document with a fresh ID.
func (s *DocumentService) CreateDocument(ctx context.Context, in driving.DocumentInput) (*domain.Document, error) {
	now := time.Now()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		Metadata:  maps.Clone(in.Metadata),
		Tags:      domain.NewTagSet(in.Tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}

	if in.Upload != nil {
		att, err := s.storeFile(ctx, doc.ID, in.Upload)
		if err != nil {
			return nil, fmt.Errorf("create document: %w", err)
		}
		doc.File = att
	}

	logger.Debug("Created document %s (%q)", doc.ID, doc.Title)
	return doc, nil
}

// UpdateDocument applies a partial update. A new upload is stored before any
// field changes, so a failed write leaves the document untouched.
func (s *DocumentService) UpdateDocument(
	ctx context.Context, doc *domain.Document, upd driving.DocumentUpdate,
) (*domain.Attachment, error) {
	var att *domain.Attachment
	if upd.Upload != nil {
		var err error
		att, err = s.storeFile(ctx, doc.ID, upd.Upload)
		if err != nil {
			return nil, fmt.Errorf("update document %s: %w", doc.ID, err)
		}
	}

	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Content != nil {
		doc.Content = *upd.Content
	}
	if upd.Tags != nil {
		doc.Tags = domain.NewTagSet(*upd.Tags...)
	}

	var replaced *domain.Attachment
	if att != nil {
		replaced = doc.File
		doc.File = att
		if replaced != nil && !upd.RetainReplacedFile {
			if err := s.files.Remove(ctx, replaced.Path); err != nil {
				logger.Warn("Failed to remove replaced file %s: %v", replaced.Path, err)
			}
		}
	}

	doc.Touch()
	return replaced, nil
}

// AttachFile stores an upload and makes it the document's attachment.
func (s *DocumentService) AttachFile(
	ctx context.Context, doc *domain.Document, upload domain.Upload,
) (*domain.Attachment, error) {
	att, err := s.storeFile(ctx, doc.ID, upload)
	if err != nil {
		return nil, fmt.Errorf("attach file to %s: %w", doc.ID, err)
	}
	doc.File = att
	doc.Touch()
	return att, nil
}

// DiscardFile removes a stored attachment's file.
func (s *DocumentService) DiscardFile(ctx context.Context, att *domain.Attachment) error {
	if att == nil {
		return nil
	}
	if s.files == nil {
		return ErrNoFileStore
	}
	if err := s.files.Remove(ctx, att.Path); err != nil {
		return fmt.Errorf("discard file %s: %w", att.Path, err)
	}
	return nil
}

// DeleteFile removes the attached file and clears the attachment.
func (s *DocumentService) DeleteFile(ctx context.Context, doc *domain.Document) (bool, error) {
	if doc.File == nil {
		return false, nil
	}
	if err := s.DiscardFile(ctx, doc.File); err != nil {
		return false, err
	}
	doc.File = nil
	doc.Touch()
	return true, nil
}

// FilePath returns the attachment path if the file is still on disk.
func (s *DocumentService) FilePath(ctx context.Context, doc *domain.Document) (string, bool) {
	if doc.File == nil || s.files == nil {
		return "", false
	}
	if !s.files.Exists(ctx, doc.File.Path) {
		return "", false
	}
	return doc.File.Path, true
}

// CreateCitation builds a citation whose ID is derived from its content.
func (s *DocumentService) CreateCitation(text, source string, page *int, section, url string) domain.Citation {
	return domain.Citation{
		ID:        domain.CitationID(text, source, page, section, url),
		Text:      text,
		Source:    source,
		Page:      page,
		Section:   section,
		URL:       url,
		CreatedAt: time.Now(),
	}
}

// CreateAnnotation builds an annotation with a fresh random ID.
func (s *DocumentService) CreateAnnotation(
	documentID string,
	typ domain.AnnotationType,
	text string,
	position map[string]any,
	userID, color string,
	citations []domain.Citation,
) *domain.Annotation {
	now := time.Now()
	return &domain.Annotation{
		ID:         uuid.NewString(),
		Type:       typ,
		Text:       text,
		Position:   maps.Clone(position),
		DocumentID: documentID,
		UserID:     userID,
		Color:      color,
		Citations:  slices.Clone(citations),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddAnnotationToDocument appends an annotation.
func (s *DocumentService) AddAnnotationToDocument(doc *domain.Document, a *domain.Annotation) {
	doc.AddAnnotation(a)
}

// RemoveAnnotationFromDocument removes an annotation by ID.
func (s *DocumentService) RemoveAnnotationFromDocument(doc *domain.Document, annotationID string) bool {
	return doc.RemoveAnnotation(annotationID)
}

// AddCitationToDocument appends a document-level citation.
func (s *DocumentService) AddCitationToDocument(doc *domain.Document, c domain.Citation) {
	doc.AddCitation(c)
}

// AddTagToDocument adds a tag.
func (s *DocumentService) AddTagToDocument(doc *domain.Document, tag string) {
	doc.AddTag(tag)
}

// RemoveTagFromDocument removes a tag.
func (s *DocumentService) RemoveTagFromDocument(doc *domain.Document, tag string) bool {
	return doc.RemoveTag(tag)
}

// AddComment appends a legacy free-text comment.
func (s *DocumentService) AddComment(doc *domain.Document, comment string) {
	doc.Comments = append(doc.Comments, comment)
	doc.Touch()
}

// storeFile writes an upload under a name unique to the document.
// The name is "<docID>_<sanitised name>", with a random segment inserted
// if a file of that name is already stored.
func (s *DocumentService) storeFile(ctx context.Context, docID string, upload domain.Upload) (*domain.Attachment, error) {
	if s.files == nil {
		return nil, ErrNoFileStore
	}

	safe := SecureFilename(upload.Name())
	name := docID + "_" + safe
	if s.files.Exists(ctx, name) {
		name = docID + "_" + uuid.NewString()[:8] + "_" + safe
	}

	r, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", upload.Name(), err)
	}
	defer r.Close()

	path, size, err := s.files.Write(ctx, name, r)
	if err != nil {
		return nil, fmt.Errorf("store upload %q: %w", upload.Name(), err)
	}
	metrics.FileBytesWritten.Add(float64(size))
	logger.Debug("Stored %q as %s (%d bytes)", upload.Name(), path, size)

	return &domain.Attachment{
		Path:        path,
		Name:        upload.Name(),
		ContentType: upload.ContentType(),
		Size:        size,
	}, nil
}
