package repositories

import (
	"errors"
	"fmt"
	"strings"

	"inkpress/app/models"

	"github.com/dgraph-io/badger/v4"
)

// ErrDuplicateField signals a unique-field collision on create.
var ErrDuplicateField = errors.New("duplicate unique field")

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create creates a new user. Username and email are unique across all users;
// the uniqueness scan runs inside the same transaction as the write.
func (r *BadgerUserRepository) Create(user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var clash bool
		err := forEachEntity(txn, []byte(UserKeyPrefix), func(val []byte) (bool, error) {
			var existing models.User
			if err := unmarshalEntity(val, &existing); err != nil {
				return false, err
			}
			if strings.EqualFold(existing.Email, user.Email) ||
				strings.EqualFold(existing.Username, user.Username) {
				clash = true
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		if clash {
			return fmt.Errorf("%w: username or email already registered", ErrDuplicateField)
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id
		user.BeforeCreate()

		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		return txn.Set(entityKey(UserKeyPrefix, user.ID), data)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrUsername retrieves the first user matching either field,
// mirroring the commenter find-or-create lookup. An empty parameter matches
// nothing, so a lookup by email alone can never resolve through the
// username side.
func (r *BadgerUserRepository) FindByEmailOrUsername(email, username string) (*models.User, error) {
	var found *models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(UserKeyPrefix), func(val []byte) (bool, error) {
			var user models.User
			if err := unmarshalEntity(val, &user); err != nil {
				return false, err
			}
			if (email != "" && strings.EqualFold(user.Email, email)) ||
				(username != "" && strings.EqualFold(user.Username, username)) {
				found = &user
				return false, nil
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// ListByRole retrieves all users holding the given role.
func (r *BadgerUserRepository) ListByRole(role models.Role) ([]*models.User, error) {
	return r.list(func(u *models.User) bool { return u.Roles.Has(role) })
}

// ListWithoutRole retrieves all users not holding the given role. Used to
// keep admin accounts out of public user listings.
func (r *BadgerUserRepository) ListWithoutRole(role models.Role) ([]*models.User, error) {
	return r.list(func(u *models.User) bool { return !u.Roles.Has(role) })
}

func (r *BadgerUserRepository) list(keep func(*models.User) bool) ([]*models.User, error) {
	var users []*models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(UserKeyPrefix), func(val []byte) (bool, error) {
			var user models.User
			if err := unmarshalEntity(val, &user); err != nil {
				return false, err
			}
			if keep(&user) {
				users = append(users, &user)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Mutate loads the user, applies fn and writes the result back, all inside
// one transaction. Role grants, revocations and password updates go through
// here so they are atomic set operations against the store, never a
// fetch-mutate-save across transactions.
func (r *BadgerUserRepository) Mutate(id int, fn func(user *models.User) error) (*models.User, error) {
	var user models.User
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(UserKeyPrefix, id)
		if err := getEntity(txn, key, &user); err != nil {
			return err
		}
		if err := fn(&user); err != nil {
			return err
		}
		data, err := marshalEntity(&user)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete deletes a user by ID
func (r *BadgerUserRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(UserKeyPrefix, id)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
