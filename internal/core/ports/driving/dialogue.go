package driving

import (
	"context"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

// DialogueService is the registry of live workspaces and their dialogue.
// Methods taking a workspace ID return an error wrapping domain.ErrNotFound
// when the workspace does not exist.
type DialogueService interface {
	// CreateContext opens an empty workspace and returns its ID.
	CreateContext(ctx context.Context, profile *domain.UserProfile) (string, error)

	// OpenContext creates a workspace and greets the user with a system message.
	OpenContext(ctx context.Context, profile *domain.UserProfile) (*domain.Workspace, error)

	// GetContext retrieves a workspace by ID.
	GetContext(ctx context.Context, id string) (*domain.Workspace, error)

	// AddUserMessage appends a USER message.
	AddUserMessage(ctx context.Context, id, content string) (*domain.Message, error)

	// AddSystemMessage appends a SYSTEM message.
	AddSystemMessage(ctx context.Context, id, content string) (*domain.Message, error)

	// AddAssistantMessage appends an ASSISTANT message.
	AddAssistantMessage(ctx context.Context, id, content string) (*domain.Message, error)

	// Converse records a user message and the assistant's reply, returning the reply.
	Converse(ctx context.Context, id, content string) (*domain.Message, error)

	// SaveContext persists a workspace. Workspaces live in memory only,
	// so this succeeds for any known workspace.
	SaveContext(ctx context.Context, id string) error

	// CloseContext removes a workspace.
	CloseContext(ctx context.Context, id string) error

	// ListContexts returns all live workspaces.
	ListContexts(ctx context.Context) ([]*domain.Workspace, error)

	// StoreSearchResults records results for a query in a workspace.
	StoreSearchResults(ctx context.Context, id, query string, results []domain.SearchResult) error

	// ClearSearchResults drops results for a query, or all when query is empty.
	ClearSearchResults(ctx context.Context, id, query string) error

	// SetUserProfile attaches a profile to a workspace.
	SetUserProfile(ctx context.Context, id string, profile *domain.UserProfile) error
}
