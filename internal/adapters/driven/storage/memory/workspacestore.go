// Package memory holds live workspaces in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
)

// Ensure WorkspaceStore implements the interface.
var _ driven.WorkspaceStore = (*WorkspaceStore)(nil)

// WorkspaceStore is an in-memory implementation of driven.WorkspaceStore.
// It guards the registry only; each workspace's contents are guarded by
// its session.
type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[string]*domain.Workspace
}

// NewWorkspaceStore creates a new in-memory workspace store.
func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{
		workspaces: make(map[string]*domain.Workspace),
	}
}

// Save stores or replaces a workspace.
func (s *WorkspaceStore) Save(_ context.Context, ws *domain.Workspace) error {
	if ws == nil || ws.ID == "" {
		return fmt.Errorf("save workspace: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[ws.ID] = ws
	return nil
}

// Get retrieves a workspace by ID.
func (s *WorkspaceStore) Get(_ context.Context, id string) (*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	return ws, nil
}

// Delete removes a workspace.
func (s *WorkspaceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	delete(s.workspaces, id)
	return nil
}

// List returns all workspaces, oldest session first.
func (s *WorkspaceStore) List(_ context.Context) ([]*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		result = append(result, ws)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SessionStart.Equal(result[j].SessionStart) {
			return result[i].ID < result[j].ID
		}
		return result[i].SessionStart.Before(result[j].SessionStart)
	})
	return result, nil
}
