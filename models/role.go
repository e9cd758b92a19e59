package models

// Role is the RBAC role of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Dashboard returns the landing route of the role. Unknown roles are sent
// back to the login page.
func (r Role) Dashboard() string {
	switch r {
	case RoleAdmin:
		return RedirectAdminDashboard
	case RoleUser:
		return RedirectUserDashboard
	default:
		return RedirectLogin
	}
}
