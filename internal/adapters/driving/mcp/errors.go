// Package mcp exposes vibe workspaces to MCP clients: every reversible
// mutation is a tool backed by a command, and workspace state is readable
// as resources.
package mcp

import "errors"

// ErrMissingSessions is returned when no session manager is provided.
var ErrMissingSessions = errors.New("mcp: session manager is required")
