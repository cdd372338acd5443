package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/MrEthical07/scmsauth/directory"
)

// ErrCorrupt reports a slot value that is not a session-shaped record.
var ErrCorrupt = errors.New("session record corrupt")

// recordFields are the keys of the slot record. Matching is exact.
var recordFields = []string{"id", "name", "email", "role", "avatar"}

// Encode serializes acc into the slot record format.
func Encode(acc directory.Account) ([]byte, error) {
	if err := validate(acc); err != nil {
		return nil, err
	}
	return json.Marshal(acc)
}

// Decode parses and validates a slot record. Every failure wraps ErrCorrupt.
// Keys must match the record format exactly: a case variant or a repeat of a
// known key is corrupt, other unknown keys are ignored.
func Decode(data []byte) (directory.Account, error) {
	if !utf8.Valid(data) {
		return directory.Account{}, fmt.Errorf("%w: invalid utf-8", ErrCorrupt)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return directory.Account{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	for _, key := range recordFields[:4] {
		if _, ok := fields[key]; !ok {
			return directory.Account{}, fmt.Errorf("%w: missing field %q", ErrCorrupt, key)
		}
	}

	acc := directory.Account{
		ID:     fields["id"],
		Name:   fields["name"],
		Email:  fields["email"],
		Role:   directory.Role(fields["role"]),
		Avatar: fields["avatar"],
	}
	if err := validate(acc); err != nil {
		return directory.Account{}, err
	}
	return acc, nil
}

// decodeFields walks one JSON object and returns the string values of the
// known keys.
func decodeFields(data []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("not an object")
	}

	out := make(map[string]string, len(recordFields))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("invalid key")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		known := knownField(key)
		switch {
		case known == "":
			continue
		case known != key:
			return nil, fmt.Errorf("key %q is not %q", key, known)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}

		// avatar is optional and may be null
		if key == "avatar" && string(raw) == "null" {
			continue
		}
		if len(raw) == 0 || raw[0] != '"' {
			return nil, fmt.Errorf("field %q is not a string", key)
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out[key] = v
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data")
	}
	return out, nil
}

func knownField(key string) string {
	for _, f := range recordFields {
		if strings.EqualFold(key, f) {
			return f
		}
	}
	return ""
}

func validate(acc directory.Account) error {
	switch {
	case strings.TrimSpace(acc.ID) == "":
		return fmt.Errorf("%w: empty id", ErrCorrupt)
	case strings.TrimSpace(acc.Name) == "":
		return fmt.Errorf("%w: empty name", ErrCorrupt)
	case strings.TrimSpace(acc.Email) == "":
		return fmt.Errorf("%w: empty email", ErrCorrupt)
	case !acc.Role.Valid():
		return fmt.Errorf("%w: role %q", ErrCorrupt, acc.Role)
	}
	return nil
}
