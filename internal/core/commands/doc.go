// Package commands implements reversible workspace operations and the
// linear history that executes, undoes and redoes them.
//
// Each command captures its target identifiers and inputs at construction,
// where they are validated. Execute snapshots whatever prior state the
// command needs to invert itself; Undo restores it. Commands re-resolve
// their workspace and document on every call, so they act on live state.
//
// A History is not safe for concurrent use. Callers that share a workspace
// serialise access through internal/core/session.
package commands
