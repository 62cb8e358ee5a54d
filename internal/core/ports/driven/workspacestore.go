package driven

import (
	"context"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// WorkspaceStore holds live workspaces.
// Workspaces are returned by reference; callers mutate them in place.
type WorkspaceStore interface {
	// Save stores or replaces a workspace.
	Save(ctx context.Context, ws *domain.Workspace) error

	// Get retrieves a workspace by ID.
	// Returns domain.ErrNotFound if no such workspace exists.
	Get(ctx context.Context, id string) (*domain.Workspace, error)

	// Delete removes a workspace.
	// Returns domain.ErrNotFound if no such workspace exists.
	Delete(ctx context.Context, id string) error

	// List returns all workspaces ordered by SessionStart.
	List(ctx context.Context) ([]*domain.Workspace, error)
}
