package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/session"
	"github.com/custodia-labs/vibe/internal/logger"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive workspace",
	Long: `Open a new workspace and read commands from standard input.

Every change to documents, tags, annotations, citations and searches is
recorded and can be reverted with "undo" and reapplied with "redo".
Type "help" for the list of commands.

Documents can be referred to by ID, by a unique ID prefix, or by "." for
the document last created or shown.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	sess, err := sessions.Open(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(context.WithoutCancel(cmd.Context()), sess.ID()); err != nil {
			logger.Warn("Closing workspace %s: %v", sess.ID(), err)
		}
	}()

	in := cmd.InOrStdin()
	sh := NewShell(sess, settings.Search, in, cmd.OutOrStdout())
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		sh.ShowPrompt(true)
	}
	return sh.Run(cmd.Context())
}

// errQuit ends the shell loop.
var errQuit = errors.New("quit")

// maxLine bounds a single shell input line.
const maxLine = 1 << 20

type shellCommand struct {
	usage   string
	summary string
	run     func(ctx context.Context, args []string) error
}

// Shell is a line-oriented command interpreter over one session.
type Shell struct {
	sess     *session.Session
	search   domain.SearchSettings
	in       io.Reader
	out      io.Writer
	styles   *Styles
	prompt   bool
	commands map[string]shellCommand
}

// NewShell creates a shell reading commands from in and writing to out.
func NewShell(sess *session.Session, search domain.SearchSettings, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		sess:   sess,
		search: search,
		in:     in,
		out:    out,
		styles: NewStyles(nil),
	}
	s.commands = s.commandTable()
	return s
}

// ShowPrompt enables or disables the input prompt.
func (s *Shell) ShowPrompt(show bool) {
	s.prompt = show
}

// Run reads and executes lines until input ends, "quit" is entered or
// ctx is cancelled. Command errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	s.greet(ctx)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 4096), maxLine)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		s.printPrompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if err := s.Exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				s.printError(err)
			}
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	c, ok := s.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (type \"help\" for a list)", args[0])
	}
	logger.Debug("Shell command %s %q", name, args[1:])
	return c.run(ctx, args[1:])
}

// greet prints the messages the workspace opened with.
func (s *Shell) greet(ctx context.Context) {
	_ = s.sess.View(ctx, func(ws *domain.Workspace) error {
		for _, msg := range ws.Messages {
			fmt.Fprintln(s.out, s.styles.Muted.Render(msg.Content))
		}
		return nil
	})
}

func (s *Shell) printPrompt() {
	if s.prompt {
		fmt.Fprint(s.out, s.styles.Prompt.Render("vibe>")+" ")
	}
}

func (s *Shell) printError(err error) {
	fmt.Fprintln(s.out, s.styles.Error.Render("error: "+err.Error()))
}

func (s *Shell) printSuccess(format string, args ...any) {
	fmt.Fprintln(s.out, s.styles.Success.Render(fmt.Sprintf(format, args...)))
}

func (s *Shell) printHelp() {
	names := make([]string, 0, len(s.commands))
	width := 0
	for name, c := range s.commands {
		names = append(names, name)
		width = max(width, len(c.usage))
	}
	sort.Strings(names)

	fmt.Fprintln(s.out, s.styles.Title.Render("Commands"))
	for _, name := range names {
		c := s.commands[name]
		fmt.Fprintf(s.out, "  %-*s  %s\n", width, c.usage, s.styles.Muted.Render(c.summary))
	}
}

// newFlags returns a flag set that reports errors instead of printing them.
func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses flags and checks the positional argument count.
// A negative maxArgs means no upper bound.
func parseArgs(fs *pflag.FlagSet, args []string, usage string, minArgs, maxArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v (usage: %s)", domain.ErrInvalidInput, err, usage)
	}
	rest := fs.Args()
	if len(rest) < minArgs || (maxArgs >= 0 && len(rest) > maxArgs) {
		return nil, fmt.Errorf("%w: usage: %s", domain.ErrInvalidInput, usage)
	}
	return rest, nil
}

// resolveDocument maps an exact ID, a unique ID prefix or "." (the active
// document) to a document ID.
func (s *Shell) resolveDocument(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty document reference", domain.ErrInvalidInput)
	}
	var id string
	err := s.sess.View(ctx, func(ws *domain.Workspace) error {
		if ref == "." {
			if ws.ActiveDocumentID == "" {
				return fmt.Errorf("no active document: %w", domain.ErrNotFound)
			}
			id = ws.ActiveDocumentID
			return nil
		}
		if _, ok := ws.Document(ref); ok {
			id = ref
			return nil
		}

		var matches []string
		for _, doc := range ws.Documents() {
			if strings.HasPrefix(doc.ID, ref) {
				matches = append(matches, doc.ID)
			}
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("document %s: %w", ref, domain.ErrNotFound)
		case 1:
			id = matches[0]
			return nil
		default:
			return fmt.Errorf("%w: document prefix %q matches %d documents", domain.ErrInvalidInput, ref, len(matches))
		}
	})
	return id, err
}

// resolveAnnotation maps an exact annotation ID or unique prefix within a document.
func (s *Shell) resolveAnnotation(ctx context.Context, docID, ref string) (string, error) {
	var id string
	err := s.sess.View(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(docID)
		if !ok {
			return fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
		}
		if a, _ := doc.Annotation(ref); a != nil {
			id = a.ID
			return nil
		}

		var matches []string
		for _, a := range doc.Annotations {
			if strings.HasPrefix(a.ID, ref) {
				matches = append(matches, a.ID)
			}
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("annotation %s: %w", ref, domain.ErrNotFound)
		case 1:
			id = matches[0]
			return nil
		default:
			return fmt.Errorf("%w: annotation prefix %q matches %d annotations", domain.ErrInvalidInput, ref, len(matches))
		}
	})
	return id, err
}

// shortID abbreviates an ID for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
