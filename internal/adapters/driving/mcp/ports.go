package mcp

import (
	"context"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/session"
)

// Sessions is the part of session.Manager the server uses.
type Sessions interface {
	Open(ctx context.Context, profile *domain.UserProfile) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	IDs() []string
}

// Ensure session.Manager satisfies Sessions.
var _ Sessions = (*session.Manager)(nil)

// Ports aggregates what the MCP server needs.
type Ports struct {
	// Sessions resolves workspace IDs to sessions.
	Sessions Sessions

	// Search holds defaults applied when a search call leaves them unset.
	Search domain.SearchSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessions
	}
	return nil
}
