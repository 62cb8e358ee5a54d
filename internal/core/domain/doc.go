// Package domain defines the core entities of a vibe workspace.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Workspace: a session-scoped container of messages and documents
//   - Document: user content with an optional attachment, tags,
//     annotations and citations
//   - Annotation, Citation: document-owned markup
//   - Message: one dialogue turn
//   - SearchResult, SearchFilters: search output and input
//
// Entities expose the minimal mutation helpers commands need to be
// reversible. Every structural mutation of a Document refreshes UpdatedAt,
// and every mutation of a Workspace refreshes LastActivity.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
