// Package permission implements the Permission Gate: a static, fail-closed
// mapping from role to the resources (routes and features) it may access.
//
// # Model
//
// Resource keys are registered in a [Registry], which assigns each one a stable
// bit. A [RoleManager] composes one bitmask per role. A frozen [Gate] answers
// Allowed(role, resource) with two map lookups and a bit test; unknown roles
// and unknown resources are denied.
//
// # What this package must NOT do
//
//   - Perform I/O or hold session state.
//   - Import scmsauth, session, or middleware.
//   - Change decisions after [NewGate] returns.
package permission
