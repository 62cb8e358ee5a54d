package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/logger"
)

// Ensure DialogueService implements the interface.
var _ driving.DialogueService = (*DialogueService)(nil)

// WelcomeMessage greets the user when a workspace is opened.
const WelcomeMessage = "Welcome to vibe. How can I assist you today?"

// replyPrefix starts the assistant's acknowledgement of a user message.
const replyPrefix = "I received your message: "

// DialogueService manages workspaces and their messages.
type DialogueService struct {
	store driven.WorkspaceStore
}

// NewDialogueService creates a new dialogue service.
func NewDialogueService(store driven.WorkspaceStore) *DialogueService {
	return &DialogueService{store: store}
}

// CreateContext opens an empty workspace and returns its ID.
func (s *DialogueService) CreateContext(ctx context.Context, profile *domain.UserProfile) (string, error) {
	ws := domain.NewWorkspace(uuid.NewString(), profile)
	if err := s.store.Save(ctx, ws); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	logger.Debug("Created workspace %s", ws.ID)
	return ws.ID, nil
}

// OpenContext creates a workspace and adds the welcome message.
func (s *DialogueService) OpenContext(ctx context.Context, profile *domain.UserProfile) (*domain.Workspace, error) {
	id, err := s.CreateContext(ctx, profile)
	if err != nil {
		return nil, err
	}
	if _, err := s.AddSystemMessage(ctx, id, WelcomeMessage); err != nil {
		return nil, err
	}
	return s.GetContext(ctx, id)
}

// GetContext retrieves a workspace by ID.
func (s *DialogueService) GetContext(ctx context.Context, id string) (*domain.Workspace, error) {
	ws, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// AddUserMessage appends a USER message.
func (s *DialogueService) AddUserMessage(ctx context.Context, id, content string) (*domain.Message, error) {
	return s.addMessage(ctx, id, domain.RoleUser, content)
}

// AddSystemMessage appends a SYSTEM message.
func (s *DialogueService) AddSystemMessage(ctx context.Context, id, content string) (*domain.Message, error) {
	return s.addMessage(ctx, id, domain.RoleSystem, content)
}

// AddAssistantMessage appends an ASSISTANT message.
func (s *DialogueService) AddAssistantMessage(ctx context.Context, id, content string) (*domain.Message, error) {
	return s.addMessage(ctx, id, domain.RoleAssistant, content)
}

// Converse records a user message and replies with an acknowledgement.
func (s *DialogueService) Converse(ctx context.Context, id, content string) (*domain.Message, error) {
	if _, err := s.AddUserMessage(ctx, id, content); err != nil {
		return nil, err
	}
	return s.AddAssistantMessage(ctx, id, replyPrefix+content)
}

func (s *DialogueService) addMessage(
	ctx context.Context, id string, role domain.MessageRole, content string,
) (*domain.Message, error) {
	ws, err := s.GetContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("add %s message: %w", role, err)
	}
	return ws.AddMessage(domain.Message{Role: role, Content: content}), nil
}

// SaveContext succeeds for any known workspace; state lives in memory only.
func (s *DialogueService) SaveContext(ctx context.Context, id string) error {
	if _, err := s.GetContext(ctx, id); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// CloseContext removes a workspace.
func (s *DialogueService) CloseContext(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("close workspace: %w", err)
	}
	logger.Debug("Closed workspace %s", id)
	return nil
}

// ListContexts returns all live workspaces.
func (s *DialogueService) ListContexts(ctx context.Context) ([]*domain.Workspace, error) {
	return s.store.List(ctx)
}

// StoreSearchResults records results for a query.
func (s *DialogueService) StoreSearchResults(
	ctx context.Context, id, query string, results []domain.SearchResult,
) error {
	ws, err := s.GetContext(ctx, id)
	if err != nil {
		return fmt.Errorf("store search results: %w", err)
	}
	ws.StoreSearchResults(query, results)
	return nil
}

// ClearSearchResults drops results for a query, or all when query is empty.
func (s *DialogueService) ClearSearchResults(ctx context.Context, id, query string) error {
	ws, err := s.GetContext(ctx, id)
	if err != nil {
		return fmt.Errorf("clear search results: %w", err)
	}
	ws.ClearSearchResults(query)
	return nil
}

// SetUserProfile attaches a profile to a workspace.
func (s *DialogueService) SetUserProfile(ctx context.Context, id string, profile *domain.UserProfile) error {
	ws, err := s.GetContext(ctx, id)
	if err != nil {
		return fmt.Errorf("set user profile: %w", err)
	}
	ws.UserProfile = profile
	return nil
}
