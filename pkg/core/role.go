package core

// Role is the pane position of a script
type Role string

const (
	RoleMain      Role = "main"      // RoleMain draws on the price chart
	RoleSecondary Role = "secondary" // RoleSecondary draws on an indicator sub-chart
)

// IsSecondary reports whether the role owns its own axis
func (r Role) IsSecondary() bool { return r == RoleSecondary }
