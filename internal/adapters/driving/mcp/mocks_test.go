package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/local"
	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/core/services"
	"github.com/custodia-labs/vibe/internal/core/session"
)

// mockSessions fails every call with err.
type mockSessions struct {
	err error
}

func (m *mockSessions) Open(_ context.Context, _ *domain.UserProfile) (*session.Session, error) {
	return nil, m.err
}

func (m *mockSessions) Get(_ context.Context, _ string) (*session.Session, error) {
	return nil, m.err
}

func (m *mockSessions) IDs() []string {
	return nil
}

// mockSearchService returns canned results.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, _ []*domain.Document, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

// newTestServer builds a server over real services with uploads in a temp dir.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithSearch(t, services.NewSearchService())
}

func newTestServerWithSearch(t *testing.T, search driving.SearchService) *Server {
	t.Helper()
	manager := session.NewManager(commands.Deps{
		Dialogue:  services.NewDialogueService(memory.NewWorkspaceStore()),
		Documents: services.NewDocumentService(local.NewFileStore(t.TempDir())),
		Search:    search,
	})
	server, err := NewServer(&Ports{
		Sessions: manager,
		Search:   domain.DefaultSettings().Search,
	})
	require.NoError(t, err)
	return server
}

// createDocument creates a document in the default workspace.
func createDocument(t *testing.T, s *Server, title, content string, tags ...string) string {
	t.Helper()
	_, out, err := s.handleCreateDocument(context.Background(), nil, CreateDocumentInput{
		Title: title, Content: content, Tags: tags,
	})
	require.NoError(t, err)
	return out.Document["id"].(string)
}
