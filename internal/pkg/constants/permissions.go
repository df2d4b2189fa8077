package constants

const (
	ListUsers        = "list_users"
	ChangePassword   = "change_password"
	ToggleUserStatus = "toggle_user_status"
)

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ListUsers:        {Admin},
	ChangePassword:   {Admin},
	ToggleUserStatus: {Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
