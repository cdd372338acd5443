// Package directory holds the Smart Classroom account directory: the closed
// role set, account identities, and the fixed list of credentials the session
// authority verifies against.
//
// A [Static] directory is built once from a list of [Entry] values and is never
// mutated afterwards. Entries come from code ([Demo]), or from TOML / JSON files
// ([LoadFile]).
//
// # What this package must NOT do
//
//   - Import scmsauth, session, or middleware.
//   - Expose secret material through [Account].
package directory
