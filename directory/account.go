package directory

import (
	"errors"
	"fmt"
	"strings"
)

// Account is a registered identity without secret material. It is the shape
// held by a session and written into the persisted slot.
type Account struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Entry is a directory record: an account plus the secret it authenticates
// with. Exactly one of Secret (plaintext) or SecretHash (argon2id PHC string)
// is set.
type Entry struct {
	ID         string `toml:"id" json:"id"`
	Name       string `toml:"name" json:"name"`
	Email      string `toml:"email" json:"email"`
	Role       Role   `toml:"role" json:"role"`
	Avatar     string `toml:"avatar,omitempty" json:"avatar,omitempty"`
	Secret     string `toml:"secret,omitempty" json:"secret,omitempty"`
	SecretHash string `toml:"secret_hash,omitempty" json:"secret_hash,omitempty"`
}

// ErrInvalidEntry wraps every entry validation failure.
var ErrInvalidEntry = errors.New("invalid directory entry")

// Account returns the entry's identity with the secret stripped.
func (e Entry) Account() Account {
	return Account{
		ID:     e.ID,
		Name:   e.Name,
		Email:  e.Email,
		Role:   e.Role,
		Avatar: e.Avatar,
	}
}

// Hashed reports whether the entry verifies against an argon2id hash.
func (e Entry) Hashed() bool {
	return e.SecretHash != ""
}

func (e Entry) validate() error {
	switch {
	case strings.TrimSpace(e.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidEntry)
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: %s: empty name", ErrInvalidEntry, e.ID)
	case strings.TrimSpace(e.Email) == "":
		return fmt.Errorf("%w: %s: empty email", ErrInvalidEntry, e.ID)
	case !e.Role.Valid():
		return fmt.Errorf("%w: %s: %v %q", ErrInvalidEntry, e.ID, ErrUnknownRole, e.Role)
	case e.Secret == "" && e.SecretHash == "":
		return fmt.Errorf("%w: %s: no secret", ErrInvalidEntry, e.ID)
	case e.Secret != "" && e.SecretHash != "":
		return fmt.Errorf("%w: %s: both secret and secret_hash set", ErrInvalidEntry, e.ID)
	}
	return nil
}
