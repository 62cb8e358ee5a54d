package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driving"
	"github.com/custodia-labs/vibe/internal/core/services"
	"github.com/custodia-labs/vibe/internal/core/session"
)

// WorkspaceInput selects a workspace. Empty means the server's default workspace.
type WorkspaceInput struct {
	WorkspaceID string `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
}

// DocumentRef selects a document within a workspace.
type DocumentRef struct {
	WorkspaceID string `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	DocumentID  string `json:"document_id" jsonschema:"the document to act on"`
}

// inlineUpload returns an inline text file as an upload, nil when no file name is given.
func inlineUpload(name, content, contentType string) domain.Upload {
	if name == "" {
		return nil
	}
	if contentType == "" {
		contentType = "text/plain"
	}
	return domain.BytesUpload{FileName: name, MIMEType: contentType, Data: []byte(content)}
}

// MessageInput is the input schema for send_message.
type MessageInput struct {
	WorkspaceID string `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	Content     string `json:"content" jsonschema:"the user's message"`
}

// CreateDocumentInput is the input schema for create_document.
type CreateDocumentInput struct {
	WorkspaceID string   `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	FileName    string   `json:"file_name,omitempty" jsonschema:"name of a text file to attach"`
	FileContent string   `json:"file_content,omitempty" jsonschema:"text content of the attached file"`
	ContentType string   `json:"content_type,omitempty" jsonschema:"MIME type of the attached file (default text/plain)"`
	Title       string   `json:"title" jsonschema:"document title"`
	Content     string   `json:"content,omitempty" jsonschema:"document text"`
	Tags        []string `json:"tags,omitempty" jsonschema:"initial tags"`
}

// UpdateDocumentInput is the input schema for update_document.
type UpdateDocumentInput struct {
	WorkspaceID string    `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	DocumentID  string    `json:"document_id" jsonschema:"the document to act on"`
	FileName    string    `json:"file_name,omitempty" jsonschema:"name of a text file to attach"`
	FileContent string    `json:"file_content,omitempty" jsonschema:"text content of the attached file"`
	ContentType string    `json:"content_type,omitempty" jsonschema:"MIME type of the attached file (default text/plain)"`
	Title       *string   `json:"title,omitempty" jsonschema:"new title"`
	Content     *string   `json:"content,omitempty" jsonschema:"new text"`
	Tags        *[]string `json:"tags,omitempty" jsonschema:"replacement tag list"`
}

// TagInput is the input schema for tag_document and untag_document.
type TagInput struct {
	WorkspaceID string `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	DocumentID  string `json:"document_id" jsonschema:"the document to act on"`
	Tag         string `json:"tag" jsonschema:"the tag"`
}

// AnnotateInput is the input schema for annotate.
type AnnotateInput struct {
	WorkspaceID string         `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	DocumentID  string         `json:"document_id" jsonschema:"the document to act on"`
	Type        string         `json:"type" jsonschema:"COMMENT, HIGHLIGHT, CITATION, REFERENCE or NOTE"`
	Text        string         `json:"text,omitempty" jsonschema:"annotation text"`
	Position    map[string]any `json:"position,omitempty" jsonschema:"where the annotation applies, e.g. start and end offsets"`
	UserID      string         `json:"user_id,omitempty" jsonschema:"author of the annotation"`
	Color       string         `json:"color,omitempty" jsonschema:"display colour"`
}

// RemoveAnnotationInput is the input schema for remove_annotation.
type RemoveAnnotationInput struct {
	WorkspaceID  string `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	DocumentID   string `json:"document_id" jsonschema:"the document to act on"`
	AnnotationID string `json:"annotation_id" jsonschema:"the annotation to remove"`
}

// CiteInput is the input schema for cite.
type CiteInput struct {
	WorkspaceID  string `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	DocumentID   string `json:"document_id" jsonschema:"the document to act on"`
	Text         string `json:"text" jsonschema:"quoted text"`
	Source       string `json:"source" jsonschema:"where the text comes from"`
	Page         *int   `json:"page,omitempty" jsonschema:"page number"`
	Section      string `json:"section,omitempty" jsonschema:"section name"`
	URL          string `json:"url,omitempty" jsonschema:"source URL"`
	AnnotationID string `json:"annotation_id,omitempty" jsonschema:"attach to this annotation instead of the document"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	WorkspaceID string         `json:"workspace_id,omitempty" jsonschema:"workspace to act on; defaults to the server's workspace"`
	Query       string         `json:"query" jsonschema:"the search query"`
	Provider    string         `json:"provider,omitempty" jsonschema:"LOCAL, SEMANTIC, HYBRID or EXTERNAL"`
	MaxResults  int            `json:"max_results,omitempty" jsonschema:"maximum number of results to return"`
	Filters     map[string]any `json:"filters,omitempty" jsonschema:"tags, date_from, date_to and has_file filters"`
}

// WorkspaceOutput identifies a workspace.
type WorkspaceOutput struct {
	WorkspaceID string `json:"workspace_id"`
}

// MessageOutput is the assistant's reply.
type MessageOutput struct {
	Reply map[string]any `json:"reply"`
}

// DocumentOutput is a document in its nested-map form.
type DocumentOutput struct {
	Document map[string]any `json:"document"`
}

// DocumentListOutput lists documents in insertion order.
type DocumentListOutput struct {
	Documents []DocumentSummary `json:"documents"`
	Count     int               `json:"count"`
}

// DocumentSummary is a short form of a document.
type DocumentSummary struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	HasFile bool     `json:"has_file"`
}

// AnnotationOutput is an annotation in its nested-map form.
type AnnotationOutput struct {
	Annotation map[string]any `json:"annotation"`
}

// CitationOutput is a citation in its nested-map form.
type CitationOutput struct {
	Citation map[string]any `json:"citation"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
}

// HistoryOutput describes a workspace's undo/redo state.
type HistoryOutput struct {
	CanUndo  bool     `json:"can_undo"`
	CanRedo  bool     `json:"can_redo"`
	Position int      `json:"position"`
	Entries  []string `json:"entries"`
}

// DeleteFileOutput reports whether a file was removed.
type DeleteFileOutput struct {
	Deleted bool `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "open_workspace",
		Description: "Open a new workspace and return its ID",
	}, s.handleOpenWorkspace)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a message to the workspace dialogue and get the reply",
	}, s.handleSendMessage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_document",
		Description: "Create a document, optionally with an attached text file (undoable)",
	}, s.handleCreateDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_document",
		Description: "Change a document's title, content, tags or file (undoable)",
	}, s.handleUpdateDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get a document and make it the active document",
	}, s.handleGetDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents in a workspace",
	}, s.handleListDocuments)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tag_document",
		Description: "Add a tag to a document (undoable)",
	}, s.handleTagDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "untag_document",
		Description: "Remove a tag from a document (undoable)",
	}, s.handleUntagDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "annotate",
		Description: "Add an annotation to a document (undoable)",
	}, s.handleAnnotate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_annotation",
		Description: "Remove an annotation from a document (undoable)",
	}, s.handleRemoveAnnotation)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cite",
		Description: "Add a citation to a document or one of its annotations (undoable)",
	}, s.handleCite)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the workspace's documents and store the results (undoable)",
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Undo the most recent change",
	}, s.handleUndo)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Redo the most recently undone change",
	}, s.handleRedo)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "Show the workspace's undo/redo history",
	}, s.handleHistory)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_file",
		Description: "Delete a document's attached file (cannot be undone)",
	}, s.handleDeleteFile)
}

func (s *Server) handleOpenWorkspace(
	ctx context.Context, _ *mcp.CallToolRequest, _ struct{},
) (*mcp.CallToolResult, WorkspaceOutput, error) {
	sess, err := s.ports.Sessions.Open(ctx, nil)
	if err != nil {
		return nil, WorkspaceOutput{}, err
	}
	return nil, WorkspaceOutput{WorkspaceID: sess.ID()}, nil
}

func (s *Server) handleSendMessage(
	ctx context.Context, _ *mcp.CallToolRequest, input MessageInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	if input.Content == "" {
		return nil, MessageOutput{}, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	var out MessageOutput
	err = sess.Update(ctx, func(*domain.Workspace) error {
		reply, err := sess.Deps().Dialogue.Converse(ctx, sess.ID(), input.Content)
		if err != nil {
			return err
		}
		out.Reply = reply.ToMap()
		return nil
	})
	return nil, out, err
}

func (s *Server) handleCreateDocument(
	ctx context.Context, _ *mcp.CallToolRequest, input CreateDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	cmd, err := commands.NewCreateDocument(sess.Deps(), sess.ID(), driving.DocumentInput{
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
		Upload:  inlineUpload(input.FileName, input.FileContent, input.ContentType),
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, DocumentOutput{}, err
	}
	out, err := documentOutput(ctx, sess, cmd.Document().ID)
	return nil, out, err
}

func (s *Server) handleUpdateDocument(
	ctx context.Context, _ *mcp.CallToolRequest, input UpdateDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	cmd, err := commands.NewUpdateDocument(sess.Deps(), sess.Target(input.DocumentID), driving.DocumentUpdate{
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
		Upload:  inlineUpload(input.FileName, input.FileContent, input.ContentType),
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, DocumentOutput{}, err
	}
	out, err := documentOutput(ctx, sess, input.DocumentID)
	return nil, out, err
}

func (s *Server) handleGetDocument(
	ctx context.Context, _ *mcp.CallToolRequest, input DocumentRef,
) (*mcp.CallToolResult, DocumentOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	var out DocumentOutput
	err = sess.Update(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(input.DocumentID)
		if !ok {
			return fmt.Errorf("document %s: %w", input.DocumentID, domain.ErrNotFound)
		}
		ws.SetActiveDocument(doc.ID)
		out.Document = doc.ToMap()
		return nil
	})
	return nil, out, err
}

func (s *Server) handleListDocuments(
	ctx context.Context, _ *mcp.CallToolRequest, input WorkspaceInput,
) (*mcp.CallToolResult, DocumentListOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentListOutput{}, err
	}
	out := DocumentListOutput{Documents: []DocumentSummary{}}
	err = sess.View(ctx, func(ws *domain.Workspace) error {
		for _, doc := range ws.Documents() {
			out.Documents = append(out.Documents, DocumentSummary{
				ID:      doc.ID,
				Title:   doc.Title,
				Tags:    doc.TagList(),
				HasFile: doc.HasFile(),
			})
		}
		return nil
	})
	out.Count = len(out.Documents)
	return nil, out, err
}

func (s *Server) handleTagDocument(
	ctx context.Context, _ *mcp.CallToolRequest, input TagInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	cmd, err := commands.NewAddTag(sess.Deps(), sess.Target(input.DocumentID), input.Tag)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, DocumentOutput{}, err
	}
	out, err := documentOutput(ctx, sess, input.DocumentID)
	return nil, out, err
}

func (s *Server) handleUntagDocument(
	ctx context.Context, _ *mcp.CallToolRequest, input TagInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	cmd, err := commands.NewRemoveTag(sess.Deps(), sess.Target(input.DocumentID), input.Tag)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, DocumentOutput{}, err
	}
	out, err := documentOutput(ctx, sess, input.DocumentID)
	return nil, out, err
}

func (s *Server) handleAnnotate(
	ctx context.Context, _ *mcp.CallToolRequest, input AnnotateInput,
) (*mcp.CallToolResult, AnnotationOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, AnnotationOutput{}, err
	}
	typ, ok := domain.ParseAnnotationType(input.Type)
	if !ok {
		return nil, AnnotationOutput{}, fmt.Errorf("%w: unknown annotation type %q", domain.ErrInvalidInput, input.Type)
	}
	cmd, err := commands.NewAddAnnotation(sess.Deps(), commands.AnnotationInput{
		Target:   sess.Target(input.DocumentID),
		Type:     typ,
		Text:     input.Text,
		Position: input.Position,
		UserID:   input.UserID,
		Color:    input.Color,
	})
	if err != nil {
		return nil, AnnotationOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, AnnotationOutput{}, err
	}
	var out AnnotationOutput
	err = sess.View(ctx, func(*domain.Workspace) error {
		out.Annotation = cmd.Annotation().ToMap()
		return nil
	})
	return nil, out, err
}

func (s *Server) handleRemoveAnnotation(
	ctx context.Context, _ *mcp.CallToolRequest, input RemoveAnnotationInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	cmd, err := commands.NewRemoveAnnotation(sess.Deps(), sess.Target(input.DocumentID), input.AnnotationID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, DocumentOutput{}, err
	}
	out, err := documentOutput(ctx, sess, input.DocumentID)
	return nil, out, err
}

func (s *Server) handleCite(
	ctx context.Context, _ *mcp.CallToolRequest, input CiteInput,
) (*mcp.CallToolResult, CitationOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, CitationOutput{}, err
	}
	cmd, err := commands.NewAddCitation(sess.Deps(), commands.CitationInput{
		Target:       sess.Target(input.DocumentID),
		Text:         input.Text,
		Source:       input.Source,
		Page:         input.Page,
		Section:      input.Section,
		URL:          input.URL,
		AnnotationID: input.AnnotationID,
	})
	if err != nil {
		return nil, CitationOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, CitationOutput{}, err
	}
	return nil, CitationOutput{Citation: cmd.Citation().ToMap()}, nil
}

func (s *Server) handleSearch(
	ctx context.Context, _ *mcp.CallToolRequest, input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	opts := domain.SearchOptions{
		Provider:   s.ports.Search.Provider,
		MaxResults: s.ports.Search.MaxResults,
		Filters:    services.ParseFilters(input.Filters),
	}
	if input.Provider != "" {
		if opts.Provider, err = domain.ParseSearchProvider(input.Provider); err != nil {
			return nil, SearchOutput{}, fmt.Errorf("%w: %q", err, input.Provider)
		}
	}
	if input.MaxResults > 0 {
		opts.MaxResults = input.MaxResults
	}

	cmd, err := commands.NewSearchDocuments(sess.Deps(), sess.ID(), input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	if err := sess.Execute(ctx, cmd); err != nil {
		return nil, SearchOutput{}, err
	}

	results := cmd.Results()
	out := SearchOutput{Results: make([]map[string]any, len(results)), Count: len(results)}
	for i := range results {
		out.Results[i] = results[i].ToMap()
	}
	return nil, out, nil
}

func (s *Server) handleUndo(
	ctx context.Context, _ *mcp.CallToolRequest, input WorkspaceInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	if err := sess.Undo(ctx); err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, historyOutput(sess), nil
}

func (s *Server) handleRedo(
	ctx context.Context, _ *mcp.CallToolRequest, input WorkspaceInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	if err := sess.Redo(ctx); err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, historyOutput(sess), nil
}

func (s *Server) handleHistory(
	ctx context.Context, _ *mcp.CallToolRequest, input WorkspaceInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, historyOutput(sess), nil
}

func (s *Server) handleDeleteFile(
	ctx context.Context, _ *mcp.CallToolRequest, input DocumentRef,
) (*mcp.CallToolResult, DeleteFileOutput, error) {
	sess, err := s.session(ctx, input.WorkspaceID)
	if err != nil {
		return nil, DeleteFileOutput{}, err
	}
	var out DeleteFileOutput
	err = sess.Update(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(input.DocumentID)
		if !ok {
			return fmt.Errorf("document %s: %w", input.DocumentID, domain.ErrNotFound)
		}
		deleted, err := sess.Deps().Documents.DeleteFile(ctx, doc)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNoFile)
		}
		out.Deleted = true
		return nil
	})
	return nil, out, err
}

// documentOutput renders a document under the session lock.
func documentOutput(ctx context.Context, sess *session.Session, id string) (DocumentOutput, error) {
	var out DocumentOutput
	err := sess.View(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(id)
		if !ok {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		out.Document = doc.ToMap()
		return nil
	})
	return out, err
}

func historyOutput(sess *session.Session) HistoryOutput {
	st := sess.State()
	return HistoryOutput{
		CanUndo:  st.CanUndo,
		CanRedo:  st.CanRedo,
		Position: st.Position,
		Entries:  st.Entries,
	}
}
