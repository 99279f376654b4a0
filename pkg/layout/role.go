package layout

import "strings"

// Role is the visitor's standing as reported by the identity provider.
type Role int

const (
	Guest Role = iota
	User
	Admin
)

func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Admin:
		return "administrator"
	default:
		return "guest"
	}
}

// SignedIn reports whether the visitor has an identity.
func (r Role) SignedIn() bool { return r != Guest }

// ParseRole maps a role claim to a Role. Any unknown non-empty name is a
// regular user; an empty name is a guest.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Guest
	case "administrator", "admin":
		return Admin
	default:
		return User
	}
}
