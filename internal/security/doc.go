// Package security assembles the security posture report of a configured
// session authority.
//
// The report is descriptive: it flags known limitations (plaintext directory
// secrets, non-constant-time comparison, no login throttle, unencrypted slot)
// so deployers can see them. It never changes behavior.
//
// # What this package must NOT do
//
//   - Import scmsauth.
//   - Inspect secret values; it only receives counts and flags.
package security
