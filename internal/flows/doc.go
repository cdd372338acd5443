// Package flows contains the orchestrators behind the session authority's
// state-changing operations: authenticate, restore, and end.
//
// Each flow function (RunAuthenticate, RunRestore, RunEnd) accepts a typed
// dependency struct and returns a result without side effects beyond those
// dependencies. The authority owns the in-memory session and applies the
// result under its own lock.
//
// # Architecture boundaries
//
// Flow functions coordinate the directory lookup, secret verification, slot
// persistence, login throttle, audit, and metrics. They do NOT own any of
// these resources; ownership stays with the authority.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import scmsauth (to avoid import cycles).
//   - Perform I/O directly. All I/O goes through dependency functions.
//   - Pass secrets to audit, metrics, or log callbacks.
package flows
