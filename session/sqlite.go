package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const createSlotTable = `
CREATE TABLE IF NOT EXISTS session_slot (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// SQLiteSlot stores the value as one row of a key/value table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// slot table exists. The caller owns the returned *sql.DB.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createSlotTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return db, nil
}

// NewSQLiteSlot returns a slot on db. The table must exist; see OpenSQLite.
func NewSQLiteSlot(db *sql.DB, key string) *SQLiteSlot {
	if key == "" {
		key = DefaultKey
	}
	return &SQLiteSlot{db: db, key: key}
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_slot WHERE key = ?`, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return data, nil
}

func (s *SQLiteSlot) Store(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_slot (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *SQLiteSlot) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_slot WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *SQLiteSlot) Backend() string { return "sqlite" }
