package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/local"
	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/core/services"
	"github.com/custodia-labs/vibe/internal/core/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	manager := session.NewManager(commands.Deps{
		Dialogue:  services.NewDialogueService(memory.NewWorkspaceStore()),
		Documents: services.NewDocumentService(local.NewFileStore(t.TempDir())),
		Search:    services.NewSearchService(),
	})
	sess, err := manager.Open(context.Background(), nil)
	require.NoError(t, err)
	return sess
}

func document(t *testing.T, sess *session.Session, id string) *domain.Document {
	t.Helper()
	var doc *domain.Document
	require.NoError(t, sess.View(context.Background(), func(ws *domain.Workspace) error {
		d, ok := ws.Document(id)
		require.True(t, ok, "document %s not in workspace", id)
		doc = d.Clone()
		return nil
	}))
	return doc
}

func TestWatcher_ImportTextFile(t *testing.T) {
	sess := newSession(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Once upon a time"), 0o644))
	w := New(dir, sess, 0)

	id, err := w.Import(context.Background(), path)

	require.NoError(t, err)
	doc := document(t, sess, id)
	assert.Equal(t, "notes", doc.Title)
	assert.Equal(t, "Once upon a time", doc.Content)
	assert.Equal(t, path, doc.Metadata[MetadataSource])
	assert.Equal(t, "text", doc.Metadata[MetadataFormat])
	require.NotNil(t, doc.File)
	assert.Equal(t, "notes.txt", doc.File.Name)
	assert.Equal(t, int64(16), doc.File.Size)
	assert.FileExists(t, path, "source file is left in place")
	assert.Equal(t, []string{commands.NameCreateDocument}, sess.State().Entries)
}

func TestWatcher_ImportBinaryFile(t *testing.T) {
	sess := newSession(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644))
	w := New(dir, sess, 0)

	id, err := w.Import(context.Background(), path)

	require.NoError(t, err)
	doc := document(t, sess, id)
	assert.Empty(t, doc.Content)
	assert.Equal(t, "image/png", doc.File.ContentType)
	assert.NotContains(t, doc.Metadata, MetadataFormat)
}

func TestWatcher_ImportExtractsTitle(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		data        string
		wantTitle   string
		wantContent string
		wantFormat  string
	}{
		{"markdown heading", "brief.md", "# Motion to Dismiss\n\nThe **court** lacks jurisdiction.", "Motion to Dismiss", "Motion to Dismiss\n\nThe court lacks jurisdiction.", "markdown"},
		{"markdown without heading", "notes.md", "plain *words*", "notes", "plain words", "markdown"},
		{"html title", "page.html", "<html><head><title>Ruling</title></head><body><p>Granted.</p></body></html>", "Ruling", "Granted.", "html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t)
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			id, err := New(dir, sess, 0).Import(context.Background(), path)

			require.NoError(t, err)
			doc := document(t, sess, id)
			assert.Equal(t, tt.wantTitle, doc.Title)
			assert.Equal(t, tt.wantContent, doc.Content)
			assert.Equal(t, tt.wantFormat, doc.Metadata[MetadataFormat])
		})
	}
}

// failingRegistry is a NormaliserRegistry whose Normalise always fails.
type failingRegistry struct {
	err error
}

func (f failingRegistry) Normalise(context.Context, *domain.RawFile) (*driven.NormaliseResult, error) {
	return nil, f.err
}
func (f failingRegistry) Register(driven.Normaliser)   {}
func (f failingRegistry) SupportedMIMETypes() []string { return nil }

func TestWatcher_ImportExtractionFailure(t *testing.T) {
	sess := newSession(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	w := New(dir, sess, 0)
	boom := errors.New("boom")
	w.SetNormaliser(failingRegistry{err: boom})

	_, err := w.Import(context.Background(), path)

	assert.ErrorIs(t, err, boom)
	assert.False(t, sess.State().CanUndo)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "a", truncate("aé", 2), "multi-byte rune is not split")
	assert.Equal(t, "", truncate("é", 1))
}

func TestWatcher_ImportIsUndoable(t *testing.T) {
	sess := newSession(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	w := New(dir, sess, 0)
	ctx := context.Background()

	_, err := w.Import(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sess.Undo(ctx))

	require.NoError(t, sess.View(ctx, func(ws *domain.Workspace) error {
		assert.Equal(t, 0, ws.DocumentCount())
		return nil
	}))
}

func TestWatcher_ImportMissingFile(t *testing.T) {
	sess := newSession(t)
	w := New(t.TempDir(), sess, 0)

	_, err := w.Import(context.Background(), filepath.Join(w.Dir(), "gone.txt"))

	assert.Error(t, err)
	assert.False(t, sess.State().CanUndo)
}

func TestWatcher_handleEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.md")
	hidden := filepath.Join(dir, ".hidden")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.WriteFile(file, []byte("# Report"), 0o644))
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name   string
		event  fsnotify.Event
		handle bool
	}{
		{"create file", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"write only", fsnotify.Event{Name: file, Op: fsnotify.Write}, false},
		{"remove", fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{"hidden file", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: sub, Op: fsnotify.Create}, false},
		{"vanished file", fsnotify.Event{Name: filepath.Join(dir, "gone"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(dir, newSession(t), 0)

			imp, ok := w.handleEvent(context.Background(), tt.event)

			assert.Equal(t, tt.handle, ok)
			if ok {
				assert.NoError(t, imp.Err)
				assert.NotEmpty(t, imp.DocumentID)
			}
		})
	}
}

func TestWatcher_handleEventSkipsImportedPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))
	w := New(dir, newSession(t), 0)
	event := fsnotify.Event{Name: file, Op: fsnotify.Create}

	_, ok := w.handleEvent(context.Background(), event)
	require.True(t, ok)
	_, ok = w.handleEvent(context.Background(), event)

	assert.False(t, ok)
}

func TestWatcher_StartImportsNewFiles(t *testing.T) {
	sess := newSession(t)
	dir := filepath.Join(t.TempDir(), "inbox")
	w := New(dir, sess, 100)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	imports, err := w.Start(ctx)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	_, err = w.Start(ctx)
	assert.ErrorIs(t, err, ErrAlreadyWatching)

	staged := filepath.Join(t.TempDir(), "dropped.txt")
	require.NoError(t, os.WriteFile(staged, []byte("hello"), 0o644))
	require.NoError(t, os.Rename(staged, filepath.Join(dir, "dropped.txt")))

	select {
	case imp := <-imports:
		require.NoError(t, imp.Err)
		assert.Equal(t, "dropped", document(t, sess, imp.DocumentID).Title)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for import")
	}

	cancel()
	select {
	case _, ok := <-imports:
		assert.False(t, ok, "channel closes after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "report", title("/in/report.pdf"))
	assert.Equal(t, "archive.tar", title("archive.tar.gz"))
	assert.Equal(t, "README", title("README"))
}

func TestSkip(t *testing.T) {
	assert.True(t, skip("/in/.DS_Store"))
	assert.True(t, skip("/in/draft.txt~"))
	assert.True(t, skip("/in/download.part"))
	assert.False(t, skip("/in/notes.txt"))
}
