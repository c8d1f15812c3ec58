package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/app/models"
)

func TestUserRepositoryCreate(t *testing.T) {
	repo := NewBadgerUserRepository(openTestDB(t))

	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    models.NewRoleSet(models.RoleSubscriber),
	}
	require.NoError(t, repo.Create(user))
	assert.Equal(t, 1, user.ID)
	assert.False(t, user.CreatedOn.IsZero())

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(&models.User{Username: "other", Email: "ALICE@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateField)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		err := repo.Create(&models.User{Username: "Alice", Email: "new@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateField)
	})
}

func TestUserRepositoryFindByEmailOrUsername(t *testing.T) {
	repo := NewBadgerUserRepository(openTestDB(t))
	require.NoError(t, repo.Create(&models.User{Username: "bob", Email: "bob@example.com"}))

	found, err := repo.FindByEmailOrUsername("bob@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", found.Username)

	found, err = repo.FindByEmailOrUsername("", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", found.Email)

	_, err = repo.FindByEmailOrUsername("nobody@example.com", "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryFindIgnoresEmptyFields(t *testing.T) {
	repo := NewBadgerUserRepository(openTestDB(t))

	// A record with no identity fields must never satisfy a lookup that
	// passes only one of the two parameters.
	require.NoError(t, repo.Create(&models.User{}))
	require.NoError(t, repo.Create(&models.User{Username: "alice", Email: "alice@example.com"}))

	found, err := repo.FindByEmailOrUsername("alice@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	found, err = repo.FindByEmailOrUsername("", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)

	_, err = repo.FindByEmailOrUsername("", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryMutateRoles(t *testing.T) {
	repo := NewBadgerUserRepository(openTestDB(t))
	user := &models.User{Username: "carol", Email: "carol@example.com"}
	require.NoError(t, repo.Create(user))

	updated, err := repo.Mutate(user.ID, func(u *models.User) error {
		u.Roles.Grant(models.RoleGuest)
		u.Password = "digest"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Roles.Has(models.RoleGuest))
	assert.Equal(t, "digest", updated.Password)

	// Granting again changes nothing.
	again, err := repo.Mutate(user.ID, func(u *models.User) error {
		u.Roles.Grant(models.RoleGuest)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, updated.Roles.Roles(), again.Roles.Roles())

	// A failing mutation leaves the stored user untouched.
	_, err = repo.Mutate(user.ID, func(u *models.User) error {
		u.Password = ""
		return assert.AnError
	})
	assert.Error(t, err)
	stored, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest", stored.Password)
}

func TestUserRepositoryListByRole(t *testing.T) {
	repo := NewBadgerUserRepository(openTestDB(t))
	require.NoError(t, repo.Create(&models.User{
		Username: "sub", Email: "sub@example.com",
		Roles: models.NewRoleSet(models.RoleSubscriber),
	}))
	require.NoError(t, repo.Create(&models.User{
		Username: "boss", Email: "boss@example.com",
		Roles: models.NewRoleSet(models.RoleAdmin, models.RoleSubscriber),
	}))

	subs, err := repo.ListByRole(models.RoleSubscriber)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	nonAdmins, err := repo.ListWithoutRole(models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, nonAdmins, 1)
	assert.Equal(t, "sub", nonAdmins[0].Username)
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewBadgerUserRepository(openTestDB(t))
	user := &models.User{Username: "gone", Email: "gone@example.com"}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))
	_, err := repo.GetByID(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(user.ID), ErrNotFound)
}
