package scmsauth

import "github.com/MrEthical07/scmsauth/permission"

// sidebar is the dashboard navigation in display order.
var sidebar = []NavItem{
	{Key: permission.ResourceDashboard, Label: "Dashboard", Path: "/dashboard"},
	{Key: permission.ResourceAttendance, Label: "Attendance", Path: "/attendance"},
	{Key: permission.ResourceResources, Label: "Resources", Path: "/resources"},
	{Key: permission.ResourceCalendar, Label: "Calendar", Path: "/calendar"},
	{Key: permission.ResourceMessaging, Label: "Messaging", Path: "/messaging"},
	{Key: permission.ResourceUsers, Label: "Users", Path: "/users"},
	{Key: permission.ResourceReports, Label: "Reports", Path: "/reports"},
	{Key: permission.ResourceSettings, Label: "Settings", Path: "/settings"},
}

// Sidebar returns every navigation entry regardless of role.
func Sidebar() []NavItem {
	out := make([]NavItem, len(sidebar))
	copy(out, sidebar)
	return out
}

// NavigationFor returns the entries role may open, in sidebar order.
func (a *Authority) NavigationFor(role string) []NavItem {
	if a == nil {
		return nil
	}
	var out []NavItem
	for _, item := range sidebar {
		if a.gate.Allowed(role, item.Key) {
			out = append(out, item)
		}
	}
	return out
}

// Navigation returns the entries open to the current session. It is empty
// when anonymous.
func (a *Authority) Navigation() []NavItem {
	acc, ok := a.CurrentAccount()
	if !ok {
		return nil
	}
	return a.NavigationFor(acc.Role.String())
}
