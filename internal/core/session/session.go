// Package session serialises access to live workspaces.
//
// A Session pairs a workspace with its undo/redo history. All mutation goes
// through the session lock, so callers on different goroutines (MCP over
// HTTP, the inbox watcher, the shell) see a consistent entity graph.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/logger"
)

// Session is a workspace and its command history.
type Session struct {
	id      string
	deps    commands.Deps
	mu      sync.Mutex
	history *commands.History
}

// State summarises a session's history.
type State struct {
	CanUndo  bool
	CanRedo  bool
	Position int
	Entries  []string
}

// ID returns the workspace ID.
func (s *Session) ID() string {
	return s.id
}

// Deps returns the services commands for this session should use.
func (s *Session) Deps() commands.Deps {
	return s.deps
}

// Target returns the command target for a document in this workspace.
func (s *Session) Target(documentID string) commands.Target {
	return commands.Target{WorkspaceID: s.id, DocumentID: documentID}
}

// Execute runs a command and records it in the history.
func (s *Session) Execute(ctx context.Context, cmd commands.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Execute(ctx, cmd)
}

// Undo reverts the most recent command.
func (s *Session) Undo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Undo(ctx)
}

// Redo re-executes the most recently undone command.
func (s *Session) Redo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Redo(ctx)
}

// View calls fn with the workspace while holding the session lock.
// fn must not retain the workspace or call back into the session.
func (s *Session) View(ctx context.Context, fn func(*domain.Workspace) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.deps.Dialogue.GetContext(ctx, s.id)
	if err != nil {
		return err
	}
	return fn(ws)
}

// Update is View for changes that are not recorded in the history,
// such as messages, file deletion and document selection.
func (s *Session) Update(ctx context.Context, fn func(*domain.Workspace) error) error {
	return s.View(ctx, fn)
}

// Release empties the history, deleting files kept only for undo.
func (s *Session) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Release(ctx)
}

// State returns a snapshot of the history.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		CanUndo:  s.history.CanUndo(),
		CanRedo:  s.history.CanRedo(),
		Position: s.history.Position(),
		Entries:  s.history.Entries(),
	}
}

// Manager owns one Session per live workspace.
type Manager struct {
	deps     commands.Deps
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager over the given services.
func NewManager(deps commands.Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Open creates a workspace, greeted with the welcome message, and its session.
func (m *Manager) Open(ctx context.Context, profile *domain.UserProfile) (*Session, error) {
	ws, err := m.deps.Dialogue.OpenContext(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	s := m.newSession(ws.ID)

	m.mu.Lock()
	m.sessions[ws.ID] = s
	m.mu.Unlock()

	logger.Info("Opened session %s", ws.ID)
	return s, nil
}

// Get returns the session for a workspace. A workspace created directly
// through the dialogue service gets a session on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	if _, err := m.deps.Dialogue.GetContext(ctx, id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s = m.newSession(id)
	m.sessions[id] = s
	return s, nil
}

// Close discards a workspace and its history. Files kept for undo are
// deleted; failures to delete them are logged and do not fail the close.
func (m *Manager) Close(ctx context.Context, id string) error {
	if _, err := m.deps.Dialogue.GetContext(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		if err := s.Release(ctx); err != nil {
			logger.Warn("Releasing history of session %s: %v", id, err)
		}
	}

	if err := m.deps.Dialogue.CloseContext(ctx, id); err != nil {
		return err
	}
	logger.Info("Closed session %s", id)
	return nil
}

// IDs returns the IDs of sessions in use, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) newSession(id string) *Session {
	return &Session{id: id, deps: m.deps, history: commands.NewHistory()}
}
