// Package auth holds the authorization core: the authenticated principal,
// the action catalogue, and the pure policy decision function that every
// mutation is resolved against. Token parsing and session handling live in
// the identity resolver upstream; this package only ever sees a resolved
// principal.
package auth

import "inkpress/app/models"

// Principal is the authenticated actor making a request. A nil *Principal
// represents an anonymous visitor.
type Principal struct {
	ID       int
	Username string
	Roles    models.RoleSet
}

// Has reports whether the principal holds the role. Safe on nil.
func (p *Principal) Has(role models.Role) bool {
	return p != nil && p.Roles.Has(role)
}

// HasAny reports whether the principal holds any of the roles. Safe on nil.
func (p *Principal) HasAny(roles ...models.Role) bool {
	return p != nil && p.Roles.HasAny(roles...)
}

// Is reports whether the principal is the user with the given ID.
func (p *Principal) Is(userID int) bool {
	return p != nil && p.ID == userID
}
