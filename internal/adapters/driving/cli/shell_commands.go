package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/core/services"
)

func (s *Shell) commandTable() map[string]shellCommand {
	quit := shellCommand{usage: "quit", summary: "leave the shell", run: s.cmdQuit}
	return map[string]shellCommand{
		"help": {usage: "help", summary: "list commands", run: func(context.Context, []string) error {
			s.printHelp()
			return nil
		}},
		"say": {
			usage:   "say TEXT...",
			summary: "send a message to the assistant",
			run:     s.cmdSay,
		},
		"create": {
			usage:   "create [--content TEXT] [--file PATH] [--tag TAG]... TITLE...",
			summary: "create a document",
			run:     s.cmdCreate,
		},
		"update": {
			usage:   "update DOC [--title T] [--content TEXT] [--file PATH] [--tags A,B]",
			summary: "change a document's fields or file",
			run:     s.cmdUpdate,
		},
		"show": {
			usage:   "show DOC",
			summary: "print a document and make it active",
			run:     s.cmdShow,
		},
		"list": {
			usage:   "list",
			summary: "list documents",
			run:     s.cmdList,
		},
		"tag": {
			usage:   "tag DOC TAG",
			summary: "add a tag",
			run:     s.cmdTag,
		},
		"untag": {
			usage:   "untag DOC TAG",
			summary: "remove a tag",
			run:     s.cmdUntag,
		},
		"annotate": {
			usage:   "annotate DOC TYPE [--color C] [--user U] TEXT...",
			summary: "add an annotation (COMMENT, HIGHLIGHT, CITATION, REFERENCE, NOTE)",
			run:     s.cmdAnnotate,
		},
		"unannotate": {
			usage:   "unannotate DOC ANNOTATION",
			summary: "remove an annotation",
			run:     s.cmdUnannotate,
		},
		"cite": {
			usage:   "cite DOC --source S [--page N] [--section S] [--url U] [--annotation A] TEXT...",
			summary: "cite a source from a document or annotation",
			run:     s.cmdCite,
		},
		"search": {
			usage:   "search [--provider P] [--max N] [--tag T]... [--from DATE] [--to DATE] [--has-file] QUERY...",
			summary: "search documents and keep the results",
			run:     s.cmdSearch,
		},
		"results": {
			usage:   "results [QUERY]",
			summary: "list stored queries or show a query's results",
			run:     s.cmdResults,
		},
		"clear": {
			usage:   "clear [QUERY]",
			summary: "drop stored results for a query, or all",
			run:     s.cmdClear,
		},
		"undo": {
			usage:   "undo",
			summary: "revert the last change",
			run:     s.cmdUndo,
		},
		"redo": {
			usage:   "redo",
			summary: "reapply the last undone change",
			run:     s.cmdRedo,
		},
		"history": {
			usage:   "history",
			summary: "show the change history",
			run:     s.cmdHistory,
		},
		"delete-file": {
			usage:   "delete-file DOC",
			summary: "delete a document's attached file (cannot be undone)",
			run:     s.cmdDeleteFile,
		},
		"comment": {
			usage:   "comment DOC TEXT...",
			summary: "add a plain comment (not recorded in history)",
			run:     s.cmdComment,
		},
		"profile": {
			usage:   "profile [--email E] [--role R] [--employer E] [--jurisdiction J] NAME...",
			summary: "set the workspace user profile",
			run:     s.cmdProfile,
		},
		"save": {
			usage:   "save",
			summary: "save the workspace",
			run:     s.cmdSave,
		},
		"quit": quit,
		"exit": quit,
	}
}

func (s *Shell) cmdQuit(context.Context, []string) error {
	return errQuit
}

func (s *Shell) cmdSay(ctx context.Context, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("%w: usage: say TEXT...", domain.ErrInvalidInput)
	}
	var reply *domain.Message
	err := s.sess.Update(ctx, func(*domain.Workspace) error {
		var err error
		reply, err = s.sess.Deps().Dialogue.Converse(ctx, s.sess.ID(), text)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, s.styles.Label.Render("assistant:")+" "+reply.Content)
	return nil
}

func (s *Shell) cmdCreate(ctx context.Context, args []string) error {
	const usage = "create [--content TEXT] [--file PATH] [--tag TAG]... TITLE..."
	fs := newFlags("create")
	content := fs.String("content", "", "document text")
	file := fs.String("file", "", "file to attach")
	contentType := fs.String("type", "", "MIME type of the file")
	tags := fs.StringSlice("tag", nil, "tag to add")
	rest, err := parseArgs(fs, args, usage, 1, -1)
	if err != nil {
		return err
	}

	in := driving.DocumentInput{
		Title:   strings.Join(rest, " "),
		Content: *content,
		Tags:    *tags,
	}
	if *file != "" {
		in.Upload = domain.PathUpload{Path: *file, MIMEType: *contentType}
	}
	cmd, err := commands.NewCreateDocument(s.sess.Deps(), s.sess.ID(), in)
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}

	doc := cmd.Document()
	if err := s.sess.Update(ctx, func(ws *domain.Workspace) error {
		ws.SetActiveDocument(doc.ID)
		return nil
	}); err != nil {
		return err
	}
	s.printSuccess("Created document %s: %s", doc.ID, in.Title)
	return nil
}

func (s *Shell) cmdUpdate(ctx context.Context, args []string) error {
	const usage = "update DOC [--title T] [--content TEXT] [--file PATH] [--tags A,B]"
	fs := newFlags("update")
	title := fs.String("title", "", "new title")
	content := fs.String("content", "", "new text")
	file := fs.String("file", "", "file to attach in place of the current one")
	contentType := fs.String("type", "", "MIME type of the file")
	tags := fs.StringSlice("tags", nil, "replacement tag set")
	rest, err := parseArgs(fs, args, usage, 1, 1)
	if err != nil {
		return err
	}

	var upd driving.DocumentUpdate
	if fs.Changed("title") {
		upd.Title = title
	}
	if fs.Changed("content") {
		upd.Content = content
	}
	if fs.Changed("tags") {
		upd.Tags = tags
	}
	if *file != "" {
		upd.Upload = domain.PathUpload{Path: *file, MIMEType: *contentType}
	}
	if upd.Title == nil && upd.Content == nil && upd.Tags == nil && upd.Upload == nil {
		return fmt.Errorf("%w: nothing to update (usage: %s)", domain.ErrInvalidInput, usage)
	}

	id, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateDocument(s.sess.Deps(), s.sess.Target(id), upd)
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	s.printSuccess("Updated document %s", id)
	return nil
}

func (s *Shell) cmdShow(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlags("show"), args, "show DOC", 1, 1)
	if err != nil {
		return err
	}
	id, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}
	return s.sess.Update(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(id)
		if !ok {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		ws.SetActiveDocument(id)
		s.renderDocument(doc)
		return nil
	})
}

func (s *Shell) renderDocument(doc *domain.Document) {
	fmt.Fprintln(s.out, s.styles.Title.Render(doc.Title))
	s.field("id", doc.ID)
	if tags := doc.TagList(); len(tags) > 0 {
		s.field("tags", strings.Join(tags, ", "))
	}
	if doc.File != nil {
		s.field("file", fmt.Sprintf("%s (%s, %d bytes)", doc.File.Name, doc.File.ContentType, doc.File.Size))
	}
	s.field("updated", doc.UpdatedAt.Format(time.RFC3339))
	if doc.Content != "" {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, doc.Content)
	}

	if len(doc.Annotations) > 0 {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, s.styles.Label.Render("Annotations"))
		for _, a := range doc.Annotations {
			fmt.Fprintf(s.out, "  [%s] %s %s\n", shortID(a.ID), a.Type, a.Text)
			for _, c := range a.Citations {
				fmt.Fprintf(s.out, "      cites %s\n", citationLine(c))
			}
		}
	}
	if len(doc.Citations) > 0 {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, s.styles.Label.Render("Citations"))
		for _, c := range doc.Citations {
			fmt.Fprintf(s.out, "  %s\n", citationLine(c))
		}
	}
	if len(doc.Comments) > 0 {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, s.styles.Label.Render("Comments"))
		for _, c := range doc.Comments {
			fmt.Fprintf(s.out, "  %s\n", c)
		}
	}
}

func (s *Shell) field(label, value string) {
	fmt.Fprintf(s.out, "  %s %s\n", s.styles.Muted.Render(fmt.Sprintf("%-8s", label+":")), value)
}

func citationLine(c domain.Citation) string {
	line := fmt.Sprintf("%q (%s", c.Text, c.Source)
	if c.Page != nil {
		line += fmt.Sprintf(", p. %d", *c.Page)
	}
	if c.Section != "" {
		line += ", " + c.Section
	}
	return line + ")"
}

func (s *Shell) cmdList(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlags("list"), args, "list", 0, 0); err != nil {
		return err
	}
	return s.sess.View(ctx, func(ws *domain.Workspace) error {
		docs := ws.Documents()
		if len(docs) == 0 {
			fmt.Fprintln(s.out, s.styles.Muted.Render("No documents."))
			return nil
		}
		for _, doc := range docs {
			marker := " "
			if doc.ID == ws.ActiveDocumentID {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s  %s", marker, shortID(doc.ID), doc.Title)
			if tags := doc.TagList(); len(tags) > 0 {
				line += s.styles.Muted.Render("  [" + strings.Join(tags, ", ") + "]")
			}
			if doc.HasFile() {
				line += s.styles.Muted.Render("  (" + doc.File.Name + ")")
			}
			fmt.Fprintln(s.out, line)
		}
		return nil
	})
}

func (s *Shell) cmdTag(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlags("tag"), args, "tag DOC TAG", 2, 2)
	if err != nil {
		return err
	}
	id, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}
	cmd, err := commands.NewAddTag(s.sess.Deps(), s.sess.Target(id), rest[1])
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	s.printSuccess("Tagged %s with %q", shortID(id), rest[1])
	return nil
}

func (s *Shell) cmdUntag(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlags("untag"), args, "untag DOC TAG", 2, 2)
	if err != nil {
		return err
	}
	id, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}
	cmd, err := commands.NewRemoveTag(s.sess.Deps(), s.sess.Target(id), rest[1])
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	s.printSuccess("Removed tag %q from %s", rest[1], shortID(id))
	return nil
}

func (s *Shell) cmdAnnotate(ctx context.Context, args []string) error {
	const usage = "annotate DOC TYPE [--color C] [--user U] TEXT..."
	fs := newFlags("annotate")
	color := fs.String("color", "", "highlight colour")
	user := fs.String("user", "", "author ID")
	rest, err := parseArgs(fs, args, usage, 2, -1)
	if err != nil {
		return err
	}
	typ, ok := domain.ParseAnnotationType(rest[1])
	if !ok {
		return fmt.Errorf("%w: unknown annotation type %q", domain.ErrInvalidInput, rest[1])
	}
	id, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddAnnotation(s.sess.Deps(), commands.AnnotationInput{
		Target: s.sess.Target(id),
		Type:   typ,
		Text:   strings.Join(rest[2:], " "),
		UserID: *user,
		Color:  *color,
	})
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	s.printSuccess("Added %s annotation %s", typ, cmd.Annotation().ID)
	return nil
}

func (s *Shell) cmdUnannotate(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlags("unannotate"), args, "unannotate DOC ANNOTATION", 2, 2)
	if err != nil {
		return err
	}
	docID, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}
	annID, err := s.resolveAnnotation(ctx, docID, rest[1])
	if err != nil {
		return err
	}
	cmd, err := commands.NewRemoveAnnotation(s.sess.Deps(), s.sess.Target(docID), annID)
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	s.printSuccess("Removed annotation %s", shortID(annID))
	return nil
}

func (s *Shell) cmdCite(ctx context.Context, args []string) error {
	const usage = "cite DOC --source S [--page N] [--section S] [--url U] [--annotation A] TEXT..."
	fs := newFlags("cite")
	source := fs.String("source", "", "where the text comes from")
	page := fs.Int("page", 0, "page number")
	section := fs.String("section", "", "section within the source")
	url := fs.String("url", "", "link to the source")
	annotation := fs.String("annotation", "", "annotation to attach the citation to")
	rest, err := parseArgs(fs, args, usage, 2, -1)
	if err != nil {
		return err
	}
	docID, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}

	in := commands.CitationInput{
		Target:  s.sess.Target(docID),
		Text:    strings.Join(rest[1:], " "),
		Source:  *source,
		Section: *section,
		URL:     *url,
	}
	if fs.Changed("page") {
		in.Page = page
	}
	if *annotation != "" {
		if in.AnnotationID, err = s.resolveAnnotation(ctx, docID, *annotation); err != nil {
			return err
		}
	}

	cmd, err := commands.NewAddCitation(s.sess.Deps(), in)
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	s.printSuccess("Added citation %s", cmd.Citation().ID)
	return nil
}

func (s *Shell) cmdSearch(ctx context.Context, args []string) error {
	const usage = "search [--provider P] [--max N] [--tag T]... [--from DATE] [--to DATE] [--has-file] QUERY..."
	fs := newFlags("search")
	provider := fs.String("provider", "", "LOCAL, SEMANTIC, HYBRID or EXTERNAL")
	maxResults := fs.Int("max", 0, "maximum number of results")
	tags := fs.StringSlice("tag", nil, "only documents with this tag")
	from := fs.String("from", "", "only documents updated on or after this date")
	to := fs.String("to", "", "only documents updated on or before this date")
	hasFile := fs.Bool("has-file", false, "only documents with (or, =false, without) a file")
	rest, err := parseArgs(fs, args, usage, 1, -1)
	if err != nil {
		return err
	}

	raw := map[string]any{}
	if len(*tags) > 0 {
		raw[services.FilterTags] = *tags
	}
	if *from != "" {
		raw[services.FilterDateFrom] = *from
	}
	if *to != "" {
		raw[services.FilterDateTo] = *to
	}
	if fs.Changed("has-file") {
		raw[services.FilterHasFile] = *hasFile
	}

	opts := domain.SearchOptions{
		Provider:   s.search.Provider,
		MaxResults: s.search.MaxResults,
		Filters:    services.ParseFilters(raw),
	}
	if *provider != "" {
		if opts.Provider, err = domain.ParseSearchProvider(*provider); err != nil {
			return fmt.Errorf("%w: %q", err, *provider)
		}
	}
	if *maxResults > 0 {
		opts.MaxResults = *maxResults
	}

	query := strings.Join(rest, " ")
	cmd, err := commands.NewSearchDocuments(s.sess.Deps(), s.sess.ID(), query, opts)
	if err != nil {
		return err
	}
	if err := s.sess.Execute(ctx, cmd); err != nil {
		return err
	}
	return s.printResults(ctx, query, cmd.Results())
}

func (s *Shell) printResults(ctx context.Context, query string, results []domain.SearchResult) error {
	noun := "results"
	if len(results) == 1 {
		noun = "result"
	}
	fmt.Fprintln(s.out, s.styles.Title.Render(fmt.Sprintf("%d %s for %q", len(results), noun, query)))
	return s.sess.View(ctx, func(ws *domain.Workspace) error {
		for i, r := range results {
			title := r.DocumentID
			if doc, ok := ws.Document(r.DocumentID); ok {
				title = doc.Title
			}
			fmt.Fprintf(s.out, "%2d. %s %s  %s\n", i+1, shortID(r.DocumentID), title,
				s.styles.Muted.Render(fmt.Sprintf("score %.2f", r.RelevanceScore)))
			if r.Context != "" {
				fmt.Fprintf(s.out, "    %s\n", s.styles.Muted.Render(r.Context))
			}
		}
		return nil
	})
}

func (s *Shell) cmdResults(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.sess.View(ctx, func(ws *domain.Workspace) error {
			queries := ws.SearchQueries()
			if len(queries) == 0 {
				fmt.Fprintln(s.out, s.styles.Muted.Render("No stored searches."))
				return nil
			}
			for _, q := range queries {
				results, _ := ws.SearchResults(q)
				fmt.Fprintf(s.out, "  %q  %s\n", q, s.styles.Muted.Render(fmt.Sprintf("%d results", len(results))))
			}
			return nil
		})
	}

	query := strings.Join(args, " ")
	var results []domain.SearchResult
	err := s.sess.View(ctx, func(ws *domain.Workspace) error {
		var ok bool
		if results, ok = ws.SearchResults(query); !ok {
			return fmt.Errorf("search %q: %w", query, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.printResults(ctx, query, results)
}

func (s *Shell) cmdClear(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	err := s.sess.Update(ctx, func(*domain.Workspace) error {
		return s.sess.Deps().Dialogue.ClearSearchResults(ctx, s.sess.ID(), query)
	})
	if err != nil {
		return err
	}
	if query == "" {
		s.printSuccess("Cleared all search results")
	} else {
		s.printSuccess("Cleared results for %q", query)
	}
	return nil
}

func (s *Shell) cmdUndo(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlags("undo"), args, "undo", 0, 0); err != nil {
		return err
	}
	before := s.sess.State()
	if err := s.sess.Undo(ctx); err != nil {
		return err
	}
	s.printSuccess("Undid %s", before.Entries[before.Position])
	return nil
}

func (s *Shell) cmdRedo(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlags("redo"), args, "redo", 0, 0); err != nil {
		return err
	}
	if err := s.sess.Redo(ctx); err != nil {
		return err
	}
	after := s.sess.State()
	s.printSuccess("Redid %s", after.Entries[after.Position])
	return nil
}

func (s *Shell) cmdHistory(_ context.Context, args []string) error {
	if _, err := parseArgs(newFlags("history"), args, "history", 0, 0); err != nil {
		return err
	}
	st := s.sess.State()
	if len(st.Entries) == 0 {
		fmt.Fprintln(s.out, s.styles.Muted.Render("No changes yet."))
		return nil
	}
	for i, name := range st.Entries {
		switch {
		case i == st.Position:
			fmt.Fprintf(s.out, "> %2d %s\n", i+1, name)
		case i < st.Position:
			fmt.Fprintf(s.out, "  %2d %s\n", i+1, name)
		default:
			fmt.Fprintf(s.out, "  %2d %s\n", i+1, s.styles.Muted.Render(name+" (undone)"))
		}
	}
	return nil
}

func (s *Shell) cmdDeleteFile(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlags("delete-file"), args, "delete-file DOC", 1, 1)
	if err != nil {
		return err
	}
	id, err := s.resolveDocument(ctx, rest[0])
	if err != nil {
		return err
	}
	err = s.sess.Update(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(id)
		if !ok {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		deleted, err := s.sess.Deps().Documents.DeleteFile(ctx, doc)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("document %s: %w", shortID(id), domain.ErrNoFile)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.printSuccess("Deleted file of %s", shortID(id))
	return nil
}

func (s *Shell) cmdComment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: comment DOC TEXT...", domain.ErrInvalidInput)
	}
	id, err := s.resolveDocument(ctx, args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	err = s.sess.Update(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(id)
		if !ok {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		s.sess.Deps().Documents.AddComment(doc, text)
		return nil
	})
	if err != nil {
		return err
	}
	s.printSuccess("Commented on %s", shortID(id))
	return nil
}

func (s *Shell) cmdProfile(ctx context.Context, args []string) error {
	const usage = "profile [--email E] [--role R] [--employer E] [--jurisdiction J] NAME..."
	fs := newFlags("profile")
	email := fs.String("email", "", "email address")
	role := fs.String("role", "", "role, e.g. attorney")
	employer := fs.String("employer", "", "employer")
	jurisdiction := fs.String("jurisdiction", "", "preferred jurisdiction")
	rest, err := parseArgs(fs, args, usage, 1, -1)
	if err != nil {
		return err
	}

	profile := &domain.UserProfile{
		ID:                    uuid.NewString(),
		Name:                  strings.Join(rest, " "),
		Email:                 *email,
		Role:                  *role,
		Employer:              *employer,
		PreferredJurisdiction: *jurisdiction,
		UIPreferences:         map[string]any{},
		SearchPreferences:     map[string]any{},
	}
	err = s.sess.Update(ctx, func(*domain.Workspace) error {
		return s.sess.Deps().Dialogue.SetUserProfile(ctx, s.sess.ID(), profile)
	})
	if err != nil {
		return err
	}
	s.printSuccess("Profile set for %s", profile.Name)
	return nil
}

func (s *Shell) cmdSave(ctx context.Context, _ []string) error {
	err := s.sess.Update(ctx, func(*domain.Workspace) error {
		return s.sess.Deps().Dialogue.SaveContext(ctx, s.sess.ID())
	})
	if err != nil {
		return err
	}
	s.printSuccess("Saved workspace %s", s.sess.ID())
	return nil
}
