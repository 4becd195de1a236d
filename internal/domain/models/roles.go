// internal/domain/models/roles.go
package models

// Company roles in descending order of permission.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// CompanyRoles lists every valid membership role.
var CompanyRoles = []string{RoleOwner, RoleAdmin, RoleMember, RoleViewer}

// IsCompanyRole reports whether role is one of CompanyRoles.
func IsCompanyRole(role string) bool {
	for _, r := range CompanyRoles {
		if r == role {
			return true
		}
	}
	return false
}
