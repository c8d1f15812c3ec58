package models

import (
	"errors"
	"time"
)

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return err
	}

	if u.CreatedOn.IsZero() {
		return errors.New("createdOn cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate() {
	if u.CreatedOn.IsZero() {
		u.CreatedOn = time.Now()
	}
	if u.Roles == nil {
		u.Roles = NewRoleSet()
	}
}

// Touch records a modification time.
func (u *User) Touch() {
	u.ModifiedOn = time.Now()
}

// HasPassword reports whether the user has a stored password digest. Users
// without one can never pass login.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
