// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FileStore: Storage for uploaded file payloads
//   - WorkspaceStore: Registry of live workspaces
//
// # Optional Interfaces
//
//   - ConfigStore: Application configuration. Without it, defaults apply.
//   - NormaliserRegistry: Text extraction for imported files. Without it,
//     imported files are attached with no content.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
