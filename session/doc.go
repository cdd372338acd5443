// Package session owns the persisted session slot: a single key holding the
// JSON record of the authenticated account (secret stripped).
//
// # Record format
//
//	{"id":"1","name":"John Doe","email":"student@example.com","role":"student","avatar":"..."}
//
// [Decode] validates the shape: id, name and email must be non-empty strings,
// role must be one of the known roles, avatar is optional. Anything else is
// [ErrCorrupt].
//
// # Backends
//
// A [Slot] is a single mutable byte slot. [MemorySlot], [FileSlot],
// [RedisSlot] and [SQLiteSlot] implement it; [Store] layers the record codec
// on top.
//
// # What this package must NOT do
//
//   - Import scmsauth or middleware.
//   - Decide whether a session is authorized; that belongs to the authority.
//   - Persist secret material.
package session
