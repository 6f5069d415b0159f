// internal/domain/models/roles.go
package models

// Roles are non-exclusive capability tags. A user may hold any combination.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// AllRoles lists every recognized role.
var AllRoles = []string{RoleAdmin, RoleManager, RoleStaff}

// IsValidRole reports whether role is one of the recognized roles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Departments are single-valued organizational tags on users. A project
// inherits its department transitively through its owner.
var AllDepartments = []string{
	"engineering",
	"design",
	"marketing",
	"sales",
	"operations",
	"hr",
}

// IsValidDepartment reports whether dept is a recognized department tag.
func IsValidDepartment(dept string) bool {
	for _, d := range AllDepartments {
		if d == dept {
			return true
		}
	}
	return false
}
