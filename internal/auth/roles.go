package auth

import "fmt"

// Role is one of the closed set of account roles.
type Role string

const (
	RoleAdmin        Role = "ROLE_ADMIN"
	RoleReceptionist Role = "ROLE_RECEPTIONIST"
	RoleTechnicien   Role = "ROLE_TECHNICIEN"
	RoleUser         Role = "ROLE_USER"
)

// hierarchy lists the roles each role implies.
// ROLE_ADMIN > ROLE_RECEPTIONIST > ROLE_TECHNICIEN > ROLE_USER
var hierarchy = map[Role][]Role{
	RoleAdmin:        {RoleReceptionist, RoleTechnicien, RoleUser},
	RoleReceptionist: {RoleUser},
	RoleTechnicien:   {RoleUser},
	RoleUser:         {},
}

// ParseRole validates a role name at the boundary.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := hierarchy[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Expand returns the held roles plus everything they imply. Unknown names are
// dropped rather than propagated.
func Expand(roles []string) []Role {
	seen := make(map[Role]bool, len(roles))
	var out []Role
	add := func(r Role) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, name := range roles {
		r, err := ParseRole(name)
		if err != nil {
			continue
		}
		add(r)
		for _, implied := range hierarchy[r] {
			add(implied)
		}
	}
	return out
}

// HasRole reports whether the held roles satisfy any of the required ones,
// following the hierarchy. Pure; the sole authorization check in the system.
func HasRole(userRoles []string, required ...Role) bool {
	expanded := Expand(userRoles)
	for _, req := range required {
		for _, have := range expanded {
			if have == req {
				return true
			}
		}
	}
	return false
}
