// Package rate implements the optional Redis-backed login throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Keys:
//   - <prefix>:al:<email>  failed logins per email
//   - <prefix>:ali:<ip>    failed logins per client IP
//
// Only failures are counted; a successful login resets both counters.
//
// # What this package must NOT do
//
//   - Decide whether credentials are valid.
//   - Be imported outside the scmsauth module.
package rate
