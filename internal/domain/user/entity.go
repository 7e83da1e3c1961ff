package user

type Role string

const (
	RoleAdmin     Role = "admin"     // School administrator - full access
	RolePrincipal Role = "principal" // Approves salaries and invoices
	RoleTeacher   Role = "teacher"   // Sees own salary and invoices
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleTeacher:
		return true
	}
	return false
}

// Claims is the caller identity carried in the access token.
type Claims struct {
	UserID string
	Role   Role
}

// IsManager checks if the caller may act on every teacher's data
func (c Claims) IsManager() bool {
	return c.Role == RoleAdmin || c.Role == RolePrincipal
}
