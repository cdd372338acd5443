package scmsauth

import (
	"time"

	"github.com/MrEthical07/scmsauth/directory"
)

// Account is the identity held by a session. It never carries secrets.
type Account = directory.Account

// Role is the closed set of dashboard roles.
type Role = directory.Role

const (
	RoleStudent = directory.RoleStudent
	RoleTeacher = directory.RoleTeacher
	RoleAdmin   = directory.RoleAdmin
)

// Directory is the read-only account lookup the authority authenticates
// against. *directory.Static implements it.
type Directory interface {
	Lookup(email string) (directory.Entry, bool)
	Accounts() []directory.Account
	Len() int
	CountHashed() int
}

// Session is an authenticated account. ID and IssuedAt exist only in memory;
// the persisted record holds the account alone.
type Session struct {
	ID       string
	Account  Account
	Valid    bool
	IssuedAt time.Time
}

// NavItem is one sidebar entry.
type NavItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
