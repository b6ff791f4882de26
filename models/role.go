package models

import "strings"

// Role is the closed set of authorization levels used by the dashboard.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSubManager Role = "sub_manager"
	RoleCreator    Role = "creator"
	RoleSuperAdmin Role = "super_admin"
)

// AllRoles lists every role in the enumeration.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleSubManager, RoleCreator, RoleSuperAdmin}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSubManager, RoleCreator, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a raw role string from the backend onto the enumeration.
// Matching ignores case and surrounding space. Anything unrecognized becomes
// RoleCreator and ok is false so callers can log the coercion.
func ParseRole(raw string) (role Role, ok bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if r.Valid() {
		return r, true
	}
	return RoleCreator, false
}

// RoleSet is an unordered set of roles. A nil or empty set means "any role".
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}
