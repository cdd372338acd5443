package session

import (
	"context"
	"errors"

	"github.com/MrEthical07/scmsauth/directory"
)

// Store reads and writes session records through a Slot.
type Store struct {
	slot Slot
}

func NewStore(slot Slot) *Store {
	return &Store{slot: slot}
}

// Save encodes acc and writes it into the slot, replacing any previous record.
func (s *Store) Save(ctx context.Context, acc directory.Account) error {
	data, err := Encode(acc)
	if err != nil {
		return err
	}
	return s.slot.Store(ctx, data)
}

// Load returns the stored account. It returns ErrEmpty when nothing is
// stored, an error wrapping ErrCorrupt for malformed records, and an error
// wrapping ErrBackendUnavailable when the slot cannot be read.
func (s *Store) Load(ctx context.Context) (directory.Account, error) {
	data, err := s.slot.Load(ctx)
	if err != nil {
		return directory.Account{}, err
	}
	return Decode(data)
}

// Clear erases the slot. Clearing an empty slot is not an error.
func (s *Store) Clear(ctx context.Context) error {
	err := s.slot.Clear(ctx)
	if errors.Is(err, ErrEmpty) {
		return nil
	}
	return err
}

// Backend names the underlying slot implementation.
func (s *Store) Backend() string {
	return s.slot.Backend()
}
