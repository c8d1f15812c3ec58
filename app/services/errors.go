package services

import (
	"errors"
	"fmt"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories"
)

// The service error taxonomy. Every operation that can fail returns one of
// these (possibly wrapped), so the request layer can map outcomes to
// transport statuses without string matching, and a policy denial is never
// mistaken for a missing record.
var (
	// ErrNotFound: the target entity does not exist.
	ErrNotFound = repositories.ErrNotFound

	// ErrAuthFailed: the authorization policy denied the action.
	ErrAuthFailed = auth.ErrAuthFailed

	// ErrConflict: duplicate content or duplicate unique field.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState: a lifecycle precondition was not met, e.g. a
	// double-subscribe or a role mutation targeting an admin.
	ErrInvalidState = errors.New("invalid state")

	// ErrDependency: the underlying store failed.
	ErrDependency = errors.New("dependency failure")
)

// CascadeError reports a partially completed post deletion: the post itself
// was removed but the comment cascade failed, leaving orphaned comments in
// the store. The primary deletion is preserved so the caller can still
// report it while surfacing the inconsistency.
type CascadeError struct {
	Post *models.Post
	Err  error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("post %d deleted but comment cascade failed: %v", e.Post.ID, e.Err)
}

// Unwrap classifies the cascade failure as a dependency failure.
func (e *CascadeError) Unwrap() error {
	return ErrDependency
}
