// Package scmsauth provides the session authority of the Smart Classroom
// dashboard: credential verification against a static account directory,
// single-slot session persistence, and role-based route and feature gating.
//
// An [Authority] is safe to call from multiple goroutines after
// initialization through [Builder.Build]. There is no package-level session;
// callers pass the authority to routers, middleware, and CLI commands.
//
// # Architecture boundaries
//
// scmsauth is the public surface. It exposes [Authority], [Builder], [Config],
// and value types ([Session], [NavItem], [SecurityReport], [MetricsSnapshot]).
// Flow orchestration, the login throttle, and audit dispatch live under
// internal/ and are never exported. The record format and slot backends live
// in package session, the role table in package permission.
//
// # What this package must NOT do
//
//   - Persist, log, or audit secret material.
//   - Expose Redis clients or slot internals in its public API.
//   - Perform I/O outside of Authority methods (Build only opens what the
//     caller configured).
//   - Import any sub-package that re-imports scmsauth (no import cycles).
package scmsauth
