package auth

// Role is the closed set of privilege tiers.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a configured role string to a Role. Anything that is not
// "admin" is an ordinary user.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Allows reports whether a caller holding r may use a route requiring the
// given role. Admins may use everything.
func (r Role) Allows(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}
