package constants

const (
	Admin = "admin"
	User  = "user"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// ValidRoles lists the roles a signup may request.
var ValidRoles = []string{User, Admin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
