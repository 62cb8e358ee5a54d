// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// DialogueService keeps workspaces in a driven.WorkspaceStore and
// DocumentService writes attachments through a driven.FileStore.
// SearchService holds no state.
package services
