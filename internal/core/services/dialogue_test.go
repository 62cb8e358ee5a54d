package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vibe/internal/core/domain"
)

func newDialogue(t *testing.T) (*DialogueService, string) {
	t.Helper()
	svc := NewDialogueService(memory.NewWorkspaceStore())
	id, err := svc.CreateContext(context.Background(), nil)
	require.NoError(t, err)
	return svc, id
}

func TestDialogueService_CreateAndGet(t *testing.T) {
	svc, id := newDialogue(t)

	ws, err := svc.GetContext(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, ws.ID)
	assert.Empty(t, ws.Messages)
}

func TestDialogueService_GetContext_NotFound(t *testing.T) {
	svc := NewDialogueService(memory.NewWorkspaceStore())

	_, err := svc.GetContext(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDialogueService_OpenContext(t *testing.T) {
	svc := NewDialogueService(memory.NewWorkspaceStore())
	profile := &domain.UserProfile{ID: "u1", Name: "Ann"}

	ws, err := svc.OpenContext(context.Background(), profile)

	require.NoError(t, err)
	require.Len(t, ws.Messages, 1)
	assert.Equal(t, domain.RoleSystem, ws.Messages[0].Role)
	assert.Equal(t, WelcomeMessage, ws.Messages[0].Content)
	assert.Same(t, profile, ws.UserProfile)
}

func TestDialogueService_Messages(t *testing.T) {
	svc, id := newDialogue(t)
	ctx := context.Background()

	tests := []struct {
		name string
		add  func(context.Context, string, string) (*domain.Message, error)
		role domain.MessageRole
	}{
		{"user", svc.AddUserMessage, domain.RoleUser},
		{"system", svc.AddSystemMessage, domain.RoleSystem},
		{"assistant", svc.AddAssistantMessage, domain.RoleAssistant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tt.add(ctx, id, "hello "+tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.role, msg.Role)
			assert.Equal(t, "hello "+tt.name, msg.Content)

			_, err = tt.add(ctx, "missing", "x")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}

	ws, err := svc.GetContext(ctx, id)
	require.NoError(t, err)
	assert.Len(t, ws.Messages, 3)
}

func TestDialogueService_Converse(t *testing.T) {
	svc, id := newDialogue(t)

	reply, err := svc.Converse(context.Background(), id, "find the contract")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, "I received your message: find the contract", reply.Content)
	ws, _ := svc.GetContext(context.Background(), id)
	require.Len(t, ws.Messages, 2)
	assert.Equal(t, domain.RoleUser, ws.Messages[0].Role)
}

func TestDialogueService_SaveAndClose(t *testing.T) {
	svc, id := newDialogue(t)
	ctx := context.Background()

	assert.NoError(t, svc.SaveContext(ctx, id))
	assert.ErrorIs(t, svc.SaveContext(ctx, "missing"), domain.ErrNotFound)

	require.NoError(t, svc.CloseContext(ctx, id))
	assert.ErrorIs(t, svc.CloseContext(ctx, id), domain.ErrNotFound)
	_, err := svc.GetContext(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDialogueService_ListContexts(t *testing.T) {
	svc := NewDialogueService(memory.NewWorkspaceStore())
	ctx := context.Background()
	_, err := svc.CreateContext(ctx, nil)
	require.NoError(t, err)
	_, err = svc.CreateContext(ctx, nil)
	require.NoError(t, err)

	list, err := svc.ListContexts(ctx)

	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDialogueService_SearchResults(t *testing.T) {
	svc, id := newDialogue(t)
	ctx := context.Background()
	results := []domain.SearchResult{{DocumentID: "d"}}

	require.NoError(t, svc.StoreSearchResults(ctx, id, "q", results))
	ws, _ := svc.GetContext(ctx, id)
	got, ok := ws.SearchResults("q")
	require.True(t, ok)
	assert.Equal(t, results, got)

	require.NoError(t, svc.ClearSearchResults(ctx, id, "q"))
	_, ok = ws.SearchResults("q")
	assert.False(t, ok)

	assert.ErrorIs(t, svc.StoreSearchResults(ctx, "missing", "q", nil), domain.ErrNotFound)
	assert.ErrorIs(t, svc.ClearSearchResults(ctx, "missing", ""), domain.ErrNotFound)
}

func TestDialogueService_SetUserProfile(t *testing.T) {
	svc, id := newDialogue(t)
	ctx := context.Background()
	profile := &domain.UserProfile{ID: "u"}

	require.NoError(t, svc.SetUserProfile(ctx, id, profile))

	ws, _ := svc.GetContext(ctx, id)
	assert.Same(t, profile, ws.UserProfile)
	assert.ErrorIs(t, svc.SetUserProfile(ctx, "missing", profile), domain.ErrNotFound)
}
