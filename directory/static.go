package directory

import (
	"fmt"
)

// Static is an immutable, in-memory account directory. Lookups are by exact,
// case-sensitive email. It is safe for concurrent use.
type Static struct {
	entries []Entry
	byEmail map[string]int
}

// NewStatic validates entries and builds a directory. Duplicate ids or emails,
// unknown roles, and entries without a secret are rejected. The input slice
// is copied.
func NewStatic(entries []Entry) (*Static, error) {
	d := &Static{
		entries: make([]Entry, len(entries)),
		byEmail: make(map[string]int, len(entries)),
	}
	copy(d.entries, entries)

	ids := make(map[string]struct{}, len(entries))
	for i, e := range d.entries {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := ids[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidEntry, e.ID)
		}
		if _, dup := d.byEmail[e.Email]; dup {
			return nil, fmt.Errorf("%w: duplicate email %q", ErrInvalidEntry, e.Email)
		}
		ids[e.ID] = struct{}{}
		d.byEmail[e.Email] = i
	}

	return d, nil
}

// Lookup returns the entry registered under email.
func (d *Static) Lookup(email string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	i, ok := d.byEmail[email]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Accounts returns every account, secrets stripped, in insertion order.
func (d *Static) Accounts() []Account {
	if d == nil {
		return nil
	}
	out := make([]Account, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.Account())
	}
	return out
}

// Len returns the number of entries.
func (d *Static) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// CountHashed returns how many entries verify against a hash rather than a
// plaintext secret.
func (d *Static) CountHashed() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, e := range d.entries {
		if e.Hashed() {
			n++
		}
	}
	return n
}
