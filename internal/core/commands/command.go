package commands

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
)

// Command is a reversible operation.
// Expected failures, such as an unknown document, wrap domain.ErrNotFound.
type Command interface {
	// Name identifies the kind of command, e.g. "add_tag".
	Name() string

	// Execute performs the operation, snapshotting what Undo needs.
	Execute(ctx context.Context) error

	// Undo reverts the last Execute.
	Undo(ctx context.Context) error
}

// Releaser is implemented by commands that keep resources for Undo.
// Release is called once an executed command can no longer be undone.
type Releaser interface {
	Release(ctx context.Context) error
}

// Deps are the services commands operate through.
type Deps struct {
	Dialogue  driving.DialogueService
	Documents driving.DocumentService
	Search    driving.SearchService
}

// Target identifies a document within a workspace.
type Target struct {
	WorkspaceID string `validate:"required"`
	DocumentID  string `validate:"required"`
}

// validate is shared by all command constructors.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("annotation_type", func(fl validator.FieldLevel) bool {
		return domain.AnnotationType(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("search_provider", func(fl validator.FieldLevel) bool {
		p := domain.SearchProvider(fl.Field().String())
		return p == "" || p.IsValid()
	})
}

// validateInput checks struct tags and wraps failures as invalid input.
func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// require checks that the services a command calls are present.
func (d Deps) require(documents, search bool) error {
	switch {
	case d.Dialogue == nil:
		return fmt.Errorf("%w: dialogue service is required", domain.ErrInvalidInput)
	case documents && d.Documents == nil:
		return fmt.Errorf("%w: document service is required", domain.ErrInvalidInput)
	case search && d.Search == nil:
		return fmt.Errorf("%w: search service is required", domain.ErrInvalidInput)
	}
	return nil
}

// document resolves a target against live state.
func (d Deps) document(ctx context.Context, t Target) (*domain.Workspace, *domain.Document, error) {
	ws, err := d.Dialogue.GetContext(ctx, t.WorkspaceID)
	if err != nil {
		return nil, nil, err
	}
	doc, ok := ws.Document(t.DocumentID)
	if !ok {
		return nil, nil, fmt.Errorf("document %s: %w", t.DocumentID, domain.ErrNotFound)
	}
	return ws, doc, nil
}
