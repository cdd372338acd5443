package permission

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidWidth    = errors.New("mask width must be 64 or 128")
	ErrFrozen          = errors.New("registry frozen")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrDuplicate       = errors.New("already registered")
	ErrLimitExceeded   = errors.New("resource limit exceeded")
	ErrUnknownResource = errors.New("resource not registered")
)

// Registry maps resource keys to bit positions.
type Registry struct {
	maxBits      int
	rootReserved bool
	rootBit      int

	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	frozen    bool
}

// NewRegistry creates a registry for masks of maxBits width. When
// rootReserved is set, the highest bit is kept back as a grant-all bit.
func NewRegistry(maxBits int, rootReserved bool) (*Registry, error) {
	if maxBits != 64 && maxBits != 128 {
		return nil, ErrInvalidWidth
	}

	r := &Registry{
		maxBits:      maxBits,
		rootReserved: rootReserved,
		rootBit:      -1,
		nameToBit:    make(map[string]int),
		bitToName:    make(map[int]string),
	}
	if rootReserved {
		r.rootBit = maxBits - 1
	}
	return r, nil
}

// Register assigns the next free bit to name.
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, ErrFrozen
	}
	if name == "" {
		return -1, ErrEmptyName
	}
	if _, exists := r.nameToBit[name]; exists {
		return -1, fmt.Errorf("resource %q: %w", name, ErrDuplicate)
	}

	next := len(r.nameToBit)
	limit := r.maxBits
	if r.rootReserved {
		limit = r.rootBit
	}
	if next >= limit {
		return -1, ErrLimitExceeded
	}

	r.nameToBit[name] = next
	r.bitToName[next] = name
	return next, nil
}

// Bit returns the bit assigned to name.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the resource assigned to bit.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze stops further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered resources.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}

// MaxBits returns the mask width.
func (r *Registry) MaxBits() int {
	return r.maxBits
}

// RootBit returns the reserved grant-all bit, or false when none is reserved.
func (r *Registry) RootBit() (int, bool) {
	if !r.rootReserved {
		return -1, false
	}
	return r.rootBit, true
}
