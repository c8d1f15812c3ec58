package models

import (
	"encoding/json"
	"sort"
)

// Role is a named capability tag on a user.
type Role string

const (
	RoleVisitor    Role = "visitor"
	RoleSubscriber Role = "subscriber"
	RoleGuest      Role = "guest"
	RoleAdmin      Role = "admin"
)

// RoleSet is a set-valued role attribute. Grant and Revoke are idempotent:
// granting a role twice equals granting it once, and revoking an absent role
// is a no-op. The set stores membership only; there is no full overwrite, so
// mutating one role can never clear another.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Grant adds role to the set.
func (s RoleSet) Grant(role Role) {
	s[role] = struct{}{}
}

// Revoke removes role from the set.
func (s RoleSet) Revoke(role Role) {
	delete(s, role)
}

// Has reports whether role is in the set.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether any of the given roles is in the set.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Roles returns the members in sorted order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the set.
func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted string array, matching the wire
// shape of the roles field.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Roles())
}

// UnmarshalJSON decodes a string array into the set.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var roles []Role
	if err := json.Unmarshal(data, &roles); err != nil {
		return err
	}
	*s = NewRoleSet(roles...)
	return nil
}
