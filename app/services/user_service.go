package services

import (
	"errors"
	"fmt"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories"
)

// UserService handles the user lifecycle: registration, the role state
// machine (subscribe/unsubscribe, guest grant/revoke, admin promotion),
// profile updates and account deletion. Every transition is a guarded
// set-mutation applied atomically through the repository's Mutate, so a
// role grant and its password write land together and concurrent admin
// actions cannot race.
type UserService struct {
	users  repositories.UserRepository
	policy *auth.Policy
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, policy *auth.Policy) *UserService {
	return &UserService{users: users, policy: policy}
}

// Register creates a new subscriber account. Username and email are unique;
// a clash is a conflict, not a store failure.
func (s *UserService) Register(username, email string) (*models.User, error) {
	user := &models.User{
		Username: username,
		Email:    email,
		Roles:    models.NewRoleSet(models.RoleSubscriber),
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateField) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(id int) (*models.User, error) {
	return s.users.GetByID(id)
}

// ListSubscribers retrieves all users holding the subscriber role.
func (s *UserService) ListSubscribers() ([]*models.User, error) {
	return s.users.ListByRole(models.RoleSubscriber)
}

// ListNonAdmins retrieves every user except admins. Admin accounts never
// appear in public listings.
func (s *UserService) ListNonAdmins() ([]*models.User, error) {
	return s.users.ListWithoutRole(models.RoleAdmin)
}

// Login verifies credentials. A user who was never given a password can
// never log in, whatever was supplied.
func (s *UserService) Login(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmailOrUsername(email, "")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAuthFailed
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	if !auth.CheckPassword(password, user.Password) {
		return nil, ErrAuthFailed
	}
	return user, nil
}

// Subscribe grants the subscriber role. Public, but guarded: an admin can
// never be subscribed, and subscribing twice is a conflict rather than a
// silent no-op.
func (s *UserService) Subscribe(principal *auth.Principal, targetID int) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionSubscribe, principal); err != nil {
		return nil, err
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		if user.Roles.Has(models.RoleAdmin) {
			return fmt.Errorf("%w: admins cannot be subscribed", ErrInvalidState)
		}
		if user.Roles.Has(models.RoleSubscriber) {
			return fmt.Errorf("%w: user already subscribed", ErrConflict)
		}
		user.Roles.Grant(models.RoleSubscriber)
		user.Touch()
		return nil
	})
}

// Unsubscribe revokes the subscriber role, symmetric to Subscribe.
func (s *UserService) Unsubscribe(principal *auth.Principal, targetID int) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionUnsubscribe, principal); err != nil {
		return nil, err
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		if user.Roles.Has(models.RoleAdmin) {
			return fmt.Errorf("%w: admins cannot be unsubscribed", ErrInvalidState)
		}
		if !user.Roles.Has(models.RoleSubscriber) {
			return fmt.Errorf("%w: user is not a subscriber", ErrInvalidState)
		}
		user.Roles.Revoke(models.RoleSubscriber)
		user.Touch()
		return nil
	})
}

// MakeGuest promotes a user to guest. Admin-granted; the password is hashed
// first and stored in the same transition as the role grant, never as two
// separate writes.
func (s *UserService) MakeGuest(principal *auth.Principal, targetID int, password string) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionMakeGuest, principal); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		if user.Roles.Has(models.RoleAdmin) {
			return fmt.Errorf("%w: admins cannot be made guests", ErrInvalidState)
		}
		user.Roles.Grant(models.RoleGuest)
		user.Password = hash
		user.Touch()
		return nil
	})
}

// RemoveGuest revokes the guest role and clears the stored password.
func (s *UserService) RemoveGuest(principal *auth.Principal, targetID int) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionRemoveGuest, principal); err != nil {
		return nil, err
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		if user.Roles.Has(models.RoleAdmin) {
			return fmt.Errorf("%w: admins cannot be removed from the guest list", ErrInvalidState)
		}
		if !user.Roles.Has(models.RoleGuest) {
			return fmt.Errorf("%w: user is not a guest", ErrInvalidState)
		}
		user.Roles.Revoke(models.RoleGuest)
		user.Password = ""
		user.Touch()
		return nil
	})
}

// MakeAdmin promotes a user to admin. Only the super identity passes the
// policy; holding admin is not enough. The password is (re)set together
// with the grant. Admin is terminal: every other role mutation excludes
// admin targets.
func (s *UserService) MakeAdmin(principal *auth.Principal, targetID int, password string) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionMakeAdmin, principal); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		user.Roles.Grant(models.RoleAdmin)
		user.Password = hash
		user.Touch()
		return nil
	})
}

// UpdateDetails changes a user's own username/email. Only the user
// themselves may do it, and only if they hold admin or guest.
func (s *UserService) UpdateDetails(principal *auth.Principal, targetID int, username, email string) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionUpdateProfile, principal, targetID); err != nil {
		return nil, err
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		if username != "" {
			user.Username = username
		}
		if email != "" {
			user.Email = email
		}
		user.Touch()
		return user.Validate()
	})
}

// UpdatePassword changes a user's own password, same gate as UpdateDetails.
func (s *UserService) UpdatePassword(principal *auth.Principal, targetID int, password string) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionUpdateProfile, principal, targetID); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return s.users.Mutate(targetID, func(user *models.User) error {
		if !user.Roles.HasAny(models.RoleAdmin, models.RoleGuest) {
			return fmt.Errorf("%w: only guests and admins hold passwords", ErrInvalidState)
		}
		user.Password = hash
		user.Touch()
		return nil
	})
}

// DeleteUser removes an account. Admin-only, and the target must currently
// be a guest or subscriber; admins are never deletable through this path.
func (s *UserService) DeleteUser(principal *auth.Principal, targetID int) (*models.User, error) {
	if err := s.policy.Decide(auth.ActionDeleteUser, principal); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if user.Roles.Has(models.RoleAdmin) {
		return nil, fmt.Errorf("%w: admin accounts cannot be deleted", ErrInvalidState)
	}
	if !user.Roles.HasAny(models.RoleGuest, models.RoleSubscriber) {
		return nil, fmt.Errorf("%w: only guests and subscribers can be deleted", ErrInvalidState)
	}
	if err := s.users.Delete(targetID); err != nil {
		return nil, err
	}
	return user, nil
}

// FindOrCreateCommenter resolves the user behind a comment submission:
// an existing user matched by email or username, or a fresh visitor
// account. Used by the comment thread model.
func (s *UserService) FindOrCreateCommenter(username, email string) (*models.User, error) {
	user, err := s.users.FindByEmailOrUsername(email, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	user = &models.User{
		Username: username,
		Email:    email,
		Roles:    models.NewRoleSet(models.RoleVisitor),
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return user, nil
}
