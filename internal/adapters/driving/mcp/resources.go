package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for vibe resources.
	uriScheme = "vibe://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "workspaces",
		Name:        "workspaces",
		Description: "IDs of the open workspaces",
		MIMEType:    "application/json",
	}, s.handleWorkspacesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "workspaces/{workspaceId}",
		Name:        "workspace",
		Description: "Full state of a workspace: messages, documents and stored search results",
		MIMEType:    "application/json",
	}, s.handleWorkspaceResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "workspaces/{workspaceId}/documents/{documentId}",
		Name:        "document-content",
		Description: "Text content of a document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleWorkspacesResource lists open workspaces.
func (s *Server) handleWorkspacesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Sessions.IDs(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling workspaces: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleWorkspaceResource returns a workspace in its nested-map form.
func (s *Server) handleWorkspaceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	wsID, docID := parseWorkspaceURI(req.Params.URI)
	if wsID == "" || docID != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	sess, err := s.ports.Sessions.Get(ctx, wsID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var data []byte
	err = sess.View(ctx, func(ws *domain.Workspace) error {
		var err error
		data, err = json.MarshalIndent(ws.ToMap(), "", "  ")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling workspace: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleDocumentContentResource returns the content of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	wsID, docID := parseWorkspaceURI(req.Params.URI)
	if wsID == "" || docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	sess, err := s.ports.Sessions.Get(ctx, wsID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var content string
	found := false
	err = sess.View(ctx, func(ws *domain.Workspace) error {
		doc, ok := ws.Document(docID)
		if ok {
			content, found = doc.Content, true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// parseWorkspaceURI splits vibe://workspaces/{id}[/documents/{docId}].
// Both results are empty if the URI does not have that shape.
func parseWorkspaceURI(uri string) (workspaceID, documentID string) {
	const prefix = uriScheme + "workspaces/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok || rest == "" {
		return "", ""
	}

	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1:
		return parts[0], ""
	case len(parts) == 3 && parts[1] == "documents" && parts[0] != "" && parts[2] != "":
		return parts[0], parts[2]
	default:
		return "", ""
	}
}
