package session

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey is the slot key used by the dashboard.
const DefaultKey = "scms_user"

var (
	// ErrEmpty is returned by Slot.Load when nothing is stored.
	ErrEmpty = errors.New("session slot empty")
	// ErrBackendUnavailable wraps I/O failures of a slot backend.
	ErrBackendUnavailable = errors.New("session slot backend unavailable")
)

// Slot is a single persisted value. Implementations must make Clear
// idempotent and must return ErrEmpty from Load when nothing is stored.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
	Backend() string
}

// MemorySlot keeps the value in process memory. It is the slot used by tests
// and by embedders that do not need persistence across restarts.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, ErrEmpty
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemorySlot) Store(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data[:0], data...)
	s.set = true
	return nil
}

func (s *MemorySlot) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.set = false
	return nil
}

func (s *MemorySlot) Backend() string { return "memory" }
