package directory

const demoSecret = "password123"

// DemoEntries returns the three reference accounts of the Smart Classroom
// demo, one per role, all sharing the demo secret.
func DemoEntries() []Entry {
	return []Entry{
		{
			ID:     "1",
			Email:  "student@example.com",
			Secret: demoSecret,
			Name:   "John Doe",
			Role:   RoleStudent,
			Avatar: "https://api.dicebear.com/6.x/avataaars/svg?seed=John",
		},
		{
			ID:     "2",
			Email:  "teacher@example.com",
			Secret: demoSecret,
			Name:   "Jane Smith",
			Role:   RoleTeacher,
			Avatar: "https://api.dicebear.com/6.x/avataaars/svg?seed=Jane",
		},
		{
			ID:     "3",
			Email:  "admin@example.com",
			Secret: demoSecret,
			Name:   "Alex Johnson",
			Role:   RoleAdmin,
			Avatar: "https://api.dicebear.com/6.x/avataaars/svg?seed=Alex",
		},
	}
}

// Demo returns a Static directory of DemoEntries.
func Demo() *Static {
	d, err := NewStatic(DemoEntries())
	if err != nil {
		panic("directory: demo entries invalid: " + err.Error())
	}
	return d
}
