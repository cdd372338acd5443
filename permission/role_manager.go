package permission

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrRoleFrozen    = errors.New("role manager frozen")
	ErrRoleEmpty     = errors.New("role name empty")
	ErrRoleDuplicate = errors.New("role already registered")
)

// RoleManager composes one resource mask per role.
type RoleManager struct {
	registry *Registry

	mu     sync.RWMutex
	roles  map[string]Mask
	frozen bool
}

func NewRoleManager(registry *Registry) *RoleManager {
	return &RoleManager{
		registry: registry,
		roles:    make(map[string]Mask),
	}
}

// RegisterRole builds a mask for roleName from registered resource names.
// Every name must already be in the registry.
func (rm *RoleManager) RegisterRole(roleName string, resources []string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.frozen {
		return ErrRoleFrozen
	}
	if roleName == "" {
		return ErrRoleEmpty
	}
	if _, exists := rm.roles[roleName]; exists {
		return fmt.Errorf("%w: %s", ErrRoleDuplicate, roleName)
	}

	mask, err := newMask(rm.registry.MaxBits())
	if err != nil {
		return err
	}

	for _, res := range resources {
		bit, ok := rm.registry.Bit(res)
		if !ok {
			return fmt.Errorf("role %s: %w: %s", roleName, ErrUnknownResource, res)
		}
		mask.Set(bit)
	}

	rm.roles[roleName] = mask
	return nil
}

// GetMask returns the mask registered for roleName.
func (rm *RoleManager) GetMask(roleName string) (Mask, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	mask, ok := rm.roles[roleName]
	return mask, ok
}

// Roles returns the registered role names in no particular order.
func (rm *RoleManager) Roles() []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	out := make([]string, 0, len(rm.roles))
	for name := range rm.roles {
		out = append(out, name)
	}
	return out
}

func (rm *RoleManager) Freeze() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.frozen = true
}
