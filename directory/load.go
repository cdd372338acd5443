package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the on-disk directory layout:
//
//	[[accounts]]
//	id = "1"
//	name = "John Doe"
//	email = "student@example.com"
//	role = "student"
//	secret = "password123"
type File struct {
	Accounts []Entry `toml:"accounts" json:"accounts"`
}

// LoadFile reads a directory from path. Files ending in .json are parsed as
// JSON; everything else is parsed as TOML.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseTOML(data)
}

// ParseTOML builds a directory from TOML bytes. Unknown keys are rejected.
func ParseTOML(data []byte) (*Static, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("decode directory toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode directory toml: unknown key %q", undecoded[0].String())
	}
	return NewStatic(f.Accounts)
}

// ParseJSON builds a directory from JSON bytes. Unknown fields are rejected.
func ParseJSON(data []byte) (*Static, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode directory json: %w", err)
	}
	return NewStatic(f.Accounts)
}

// WriteTOML encodes entries into the TOML layout read by ParseTOML.
func WriteTOML(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(File{Accounts: entries}); err != nil {
		return nil, fmt.Errorf("encode directory toml: %w", err)
	}
	return buf.Bytes(), nil
}
