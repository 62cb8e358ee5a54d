// Package inbox imports files dropped into a directory as documents.
//
// Each new file becomes a create_document command in a session, so an
// import can be undone like any other change. Files should be moved into
// the inbox rather than written in place, since a file is read as soon as
// it appears.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/core/session"
	"github.com/custodia-labs/vibe/internal/logger"
	"github.com/custodia-labs/vibe/internal/metrics"
	"github.com/custodia-labs/vibe/internal/normalisers"
)

// MetadataSource is the document metadata key holding the inbox path.
const MetadataSource = "inbox_path"

// MetadataFormat is the document metadata key holding the extracted format.
const MetadataFormat = "inbox_format"

const (
	// maxTextContent caps how much extracted text becomes document content.
	maxTextContent = 1 << 20

	// maxExtractSize is the largest file read for text extraction.
	maxExtractSize = 32 << 20
)

// ErrAlreadyWatching is returned by Start on a running watcher.
var ErrAlreadyWatching = errors.New("inbox: already watching")

// Import is the outcome of importing one file.
type Import struct {
	Path       string
	DocumentID string
	Err        error
}

// Watcher turns files created in a directory into documents.
type Watcher struct {
	dir        string
	sess       *session.Session
	limiter    *rate.Limiter
	normaliser driven.NormaliserRegistry

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	imported map[string]string
}

// New creates a watcher for dir importing into sess at most perSecond files
// per second. A non-positive rate disables throttling.
func New(dir string, sess *session.Session, perSecond float64) *Watcher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Watcher{
		dir:        dir,
		sess:       sess,
		limiter:    rate.NewLimiter(limit, 1),
		normaliser: normalisers.Default(),
		imported:   make(map[string]string),
	}
}

// SetNormaliser replaces the registry used to extract text from files.
func (w *Watcher) SetNormaliser(r driven.NormaliserRegistry) {
	w.normaliser = r
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start creates the inbox directory if needed and begins watching it.
// Imports are reported on the returned channel, which is closed when ctx
// is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) (<-chan Import, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil, ErrAlreadyWatching
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox %s: %w", w.dir, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.watcher = fsw

	out := make(chan Import)
	go w.loop(ctx, fsw, out)
	logger.Info("Watching inbox %s", w.dir)
	return out, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Import) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			imp, ok := w.handleEvent(ctx, event)
			if !ok {
				continue
			}
			select {
			case out <- imp:
			case <-ctx.Done():
				_ = w.Close()
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Inbox watcher error: %v", err)
		}
	}
}

// handleEvent imports the file named by a create event.
// It reports false for events that are not imports.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) (Import, bool) {
	if !event.Has(fsnotify.Create) {
		return Import{}, false
	}
	if skip(event.Name) {
		logger.Debug("Inbox skipping %s", event.Name)
		return Import{}, false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return Import{}, false
	}

	w.mu.Lock()
	_, seen := w.imported[event.Name]
	w.mu.Unlock()
	if seen {
		return Import{}, false
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return Import{Path: event.Name, Err: err}, true
	}

	id, err := w.Import(ctx, event.Name)
	return Import{Path: event.Name, DocumentID: id, Err: err}, true
}

// Import creates a document from a file, attaching the file and using the
// text a normaliser extracts as content. Returns the new document's ID.
func (w *Watcher) Import(ctx context.Context, path string) (string, error) {
	id, err := w.importFile(ctx, path)
	metrics.InboxImports.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.Warn("Inbox import of %s failed: %v", path, err)
		return "", err
	}

	w.mu.Lock()
	w.imported[path] = id
	w.mu.Unlock()
	logger.Info("Imported %s as document %s", path, id)
	return id, nil
}

func (w *Watcher) importFile(ctx context.Context, path string) (string, error) {
	mimeType := normalisers.DetectMIMEType(path)
	in := driving.DocumentInput{
		Title:    title(path),
		Metadata: map[string]any{MetadataSource: path},
		Upload:   domain.PathUpload{Path: path, MIMEType: mimeType},
	}

	result, err := w.extract(ctx, path, mimeType)
	if err != nil {
		return "", err
	}
	if result != nil {
		if result.Title != "" {
			in.Title = result.Title
		}
		in.Content = truncate(result.Content, maxTextContent)
		in.Metadata[MetadataFormat] = result.Format
	}

	cmd, err := commands.NewCreateDocument(w.sess.Deps(), w.sess.ID(), in)
	if err != nil {
		return "", err
	}
	if err := w.sess.Execute(ctx, cmd); err != nil {
		return "", err
	}
	return cmd.Document().ID, nil
}

// extract runs the file through the normalisers. Files no normaliser
// accepts, and files over maxExtractSize, yield a nil result.
func (w *Watcher) extract(ctx context.Context, path, mimeType string) (*driven.NormaliseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxExtractSize {
		logger.Debug("Inbox not extracting %s: %d bytes", path, info.Size())
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	result, err := w.normaliser.Normalise(ctx, &domain.RawFile{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Content:  data,
	})
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		logger.Debug("Inbox attaching %s without content: %v", path, err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return result, nil
}

// skip reports whether a path is hidden or a partial write.
func skip(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".part")
}

// title derives a document title from a file name.
func title(path string) string {
	base := filepath.Base(path)
	if t := strings.TrimSuffix(base, filepath.Ext(base)); t != "" {
		return t
	}
	return base
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
