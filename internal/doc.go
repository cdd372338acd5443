// Package internal contains the building blocks of the session authority
// that are intentionally private to scmsauth.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - flows: authenticate / restore / end orchestration with explicit dependency structs
//   - rate: optional Redis-backed login throttle
//   - security: security report assembly
//
// # What this package must NOT do
//
//   - Export types that appear in the public scmsauth API.
//   - Be imported by any package outside the scmsauth module.
package internal
