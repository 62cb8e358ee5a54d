package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/local"
	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/core/services"
)

// fixture wires real services over an in-memory workspace store and a
// temporary upload directory.
type fixture struct {
	ctx     context.Context
	deps    Deps
	ws      *domain.Workspace
	dir     string
	history *History
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	dialogue := services.NewDialogueService(memory.NewWorkspaceStore())
	deps := Deps{
		Dialogue:  dialogue,
		Documents: services.NewDocumentService(local.NewFileStore(dir)),
		Search:    services.NewSearchService(),
	}
	id, err := dialogue.CreateContext(ctx, nil)
	require.NoError(t, err)
	ws, err := dialogue.GetContext(ctx, id)
	require.NoError(t, err)
	return &fixture{ctx: ctx, deps: deps, ws: ws, dir: dir, history: NewHistory()}
}

// addDocument places a document directly in the workspace, outside the history.
func (f *fixture) addDocument(t *testing.T, title, content string, tags ...string) *domain.Document {
	t.Helper()
	doc, err := f.deps.Documents.CreateDocument(f.ctx, driving.DocumentInput{
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	require.NoError(t, err)
	f.ws.AddDocument(doc)
	return doc
}

func (f *fixture) target(doc *domain.Document) Target {
	return Target{WorkspaceID: f.ws.ID, DocumentID: doc.ID}
}

func (f *fixture) execute(t *testing.T, cmd Command, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NoError(t, f.history.Execute(f.ctx, cmd))
}

// fakeCommand records calls and fails on demand.
type fakeCommand struct {
	name       string
	executes   int
	undos      int
	executeErr error
	undoErr    error
}

var errFake = errors.New("fake failure")

func (c *fakeCommand) Name() string { return c.name }

func (c *fakeCommand) Execute(context.Context) error {
	if c.executeErr != nil {
		return c.executeErr
	}
	c.executes++
	return nil
}

func (c *fakeCommand) Undo(context.Context) error {
	if c.undoErr != nil {
		return c.undoErr
	}
	c.undos++
	return nil
}

func ptr[T any](v T) *T { return &v }

func textUpload(name, body string) domain.BytesUpload {
	return domain.BytesUpload{FileName: name, MIMEType: "text/plain", Data: []byte(body)}
}

// releasingCommand is a fakeCommand that counts releases.
type releasingCommand struct {
	fakeCommand
	releases   int
	releaseErr error
}

func (c *releasingCommand) Release(context.Context) error {
	c.releases++
	return c.releaseErr
}
