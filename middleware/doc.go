// Package middleware adapts an Authority to net/http route and feature gating.
//
// # Guards
//
//   - [RequireSession] sends anonymous requests to the login page (or 401).
//   - [RequireResource] answers 403 when the session role may not open a
//     resource.
//   - [ClientIP] records the remote address for throttling and audit.
//
// Every decision is delegated to the Authority. This package holds no
// session state and never touches the slot.
package middleware
