package permission

import (
	"fmt"

	"github.com/MrEthical07/scmsauth/directory"
)

// Route resources.
const (
	ResourceDashboard  = "dashboard"
	ResourceAttendance = "attendance"
	ResourceResources  = "resources"
	ResourceCalendar   = "calendar"
	ResourceMessaging  = "messaging"
	ResourceUsers      = "users"
	ResourceReports    = "reports"
	ResourceSettings   = "settings"
)

// Feature resources gate behavior inside a route rather than the route itself.
const (
	// FeatureAttendanceAll lets a role see every attendance record instead of
	// only its own.
	FeatureAttendanceAll = "attendance.all"
	// FeatureReservationsAll lets a role see every reservation instead of only
	// the ones it made.
	FeatureReservationsAll = "reservations.all"
	// FeatureResourcesManage lets a role add classroom resources.
	FeatureResourcesManage = "resources.manage"
)

// Policy is the declarative input to NewGate.
type Policy struct {
	// Resources lists every known key in registration order. Keys missing here
	// are unknown to the gate and always denied.
	Resources []string
	// Roles maps a role name to the resources it may access.
	Roles map[string][]string
}

// DefaultPolicy returns the Smart Classroom access table.
func DefaultPolicy() Policy {
	everyone := []string{
		ResourceDashboard,
		ResourceAttendance,
		ResourceResources,
		ResourceCalendar,
		ResourceMessaging,
		ResourceSettings,
	}

	teacher := append(append([]string{}, everyone...), ResourceReports, FeatureAttendanceAll)
	admin := append(append([]string{}, teacher...), ResourceUsers, FeatureReservationsAll, FeatureResourcesManage)

	return Policy{
		Resources: []string{
			ResourceDashboard,
			ResourceAttendance,
			ResourceResources,
			ResourceCalendar,
			ResourceMessaging,
			ResourceUsers,
			ResourceReports,
			ResourceSettings,
			FeatureAttendanceAll,
			FeatureReservationsAll,
			FeatureResourcesManage,
		},
		Roles: map[string][]string{
			directory.RoleStudent.String(): everyone,
			directory.RoleTeacher.String(): teacher,
			directory.RoleAdmin.String():   admin,
		},
	}
}

// Gate is a frozen role → resource table. All methods are pure and safe for
// concurrent use.
type Gate struct {
	registry     *Registry
	roles        *RoleManager
	rootReserved bool
	resources    []string
}

// NewGate registers the policy's resources and roles and freezes both.
func NewGate(p Policy, maxBits int, rootReserved bool) (*Gate, error) {
	registry, err := NewRegistry(maxBits, rootReserved)
	if err != nil {
		return nil, err
	}
	for _, res := range p.Resources {
		if _, err := registry.Register(res); err != nil {
			return nil, err
		}
	}
	registry.Freeze()

	roles := NewRoleManager(registry)
	for role, resources := range p.Roles {
		if err := roles.RegisterRole(role, resources); err != nil {
			return nil, fmt.Errorf("permission policy: %w", err)
		}
	}
	roles.Freeze()

	declared := make([]string, len(p.Resources))
	copy(declared, p.Resources)

	return &Gate{
		registry:     registry,
		roles:        roles,
		rootReserved: rootReserved,
		resources:    declared,
	}, nil
}

// Allowed reports whether role may access resource. Unknown roles and
// unknown resources are denied.
func (g *Gate) Allowed(role, resource string) bool {
	if g == nil {
		return false
	}
	bit, ok := g.registry.Bit(resource)
	if !ok {
		return false
	}
	mask, ok := g.roles.GetMask(role)
	if !ok {
		return false
	}
	return mask.Has(bit, g.rootReserved)
}

// Known reports whether resource is registered.
func (g *Gate) Known(resource string) bool {
	if g == nil {
		return false
	}
	_, ok := g.registry.Bit(resource)
	return ok
}

// Permitted lists the resources role may access, in registration order.
func (g *Gate) Permitted(role string) []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.resources))
	for _, res := range g.resources {
		if g.Allowed(role, res) {
			out = append(out, res)
		}
	}
	return out
}

// HasRole reports whether role is defined by the policy.
func (g *Gate) HasRole(role string) bool {
	if g == nil {
		return false
	}
	_, ok := g.roles.GetMask(role)
	return ok
}
