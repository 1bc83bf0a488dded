package auth

// Role names one of the two privilege tiers. There is no hierarchy: an admin
// token is not accepted on user-gated routes, or vice versa.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Header returns the request header carrying tokens for this role.
func (r Role) Header() string {
	if r == RoleAdmin {
		return "admin-token"
	}
	return "user-token"
}

// RoleFor maps the stored admin flag to the role a login should issue.
func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}
