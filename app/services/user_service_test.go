package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories/mock"
)

const superName = "root"

func newUserService() (*UserService, *mock.UserRepository) {
	users := mock.NewUserRepository()
	return NewUserService(users, auth.NewPolicy(superName)), users
}

func asPrincipal(u *models.User) *auth.Principal {
	return &auth.Principal{ID: u.ID, Username: u.Username, Roles: u.Roles.Clone()}
}

func seedUser(t *testing.T, svc *UserService, username string, roles ...models.Role) *models.User {
	t.Helper()
	user, err := svc.Register(username, username+"@example.com")
	require.NoError(t, err)
	if len(roles) > 0 {
		super := &auth.Principal{ID: 999, Username: superName}
		for _, role := range roles {
			switch role {
			case models.RoleAdmin:
				user, err = svc.MakeAdmin(super, user.ID, "pw-"+username)
				require.NoError(t, err)
			case models.RoleGuest:
				admin := &auth.Principal{ID: 998, Username: "seeder", Roles: models.NewRoleSet(models.RoleAdmin)}
				user, err = svc.MakeGuest(admin, user.ID, "pw-"+username)
				require.NoError(t, err)
			}
		}
	}
	return user
}

func TestRegister(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Register("alice", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.Roles.Has(models.RoleSubscriber))
	assert.Empty(t, user.Password)

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		_, err := svc.Register("alice", "other@example.com")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		_, err := svc.Register("bob", "not-an-email")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newUserService()
	guest := seedUser(t, svc, "gwen", models.RoleGuest)

	user, err := svc.Login(guest.Email, "pw-gwen")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, user.ID)

	_, err = svc.Login(guest.Email, "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = svc.Login("nobody@example.com", "pw-gwen")
	assert.ErrorIs(t, err, ErrAuthFailed)

	t.Run("passwordless account never logs in", func(t *testing.T) {
		sub := seedUser(t, svc, "sue")
		_, err := svc.Login(sub.Email, "")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestLoginIgnoresEmptyIdentityRecords(t *testing.T) {
	svc, repo := newUserService()

	// A stored record with no username must not be resolved by the login
	// lookup, which always passes an empty username parameter.
	require.NoError(t, repo.Create(&models.User{}))
	guest := seedUser(t, svc, "gwen", models.RoleGuest)

	user, err := svc.Login(guest.Email, "pw-gwen")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, user.ID)
}

func TestSubscribeGuards(t *testing.T) {
	svc, _ := newUserService()
	sub := seedUser(t, svc, "sam")
	admin := seedUser(t, svc, "alice", models.RoleAdmin)

	t.Run("double subscribe conflicts", func(t *testing.T) {
		_, err := svc.Subscribe(nil, sub.ID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("admin cannot be subscribed", func(t *testing.T) {
		_, err := svc.Subscribe(nil, admin.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("unsubscribe then resubscribe", func(t *testing.T) {
		user, err := svc.Unsubscribe(nil, sub.ID)
		require.NoError(t, err)
		assert.False(t, user.Roles.Has(models.RoleSubscriber))

		_, err = svc.Unsubscribe(nil, sub.ID)
		assert.ErrorIs(t, err, ErrInvalidState)

		user, err = svc.Subscribe(nil, sub.ID)
		require.NoError(t, err)
		assert.True(t, user.Roles.Has(models.RoleSubscriber))
	})
}

func TestMakeGuest(t *testing.T) {
	svc, _ := newUserService()
	sub := seedUser(t, svc, "greg")
	admin := seedUser(t, svc, "alice", models.RoleAdmin)

	promoted, err := svc.MakeGuest(asPrincipal(admin), sub.ID, "secret")
	require.NoError(t, err)
	assert.True(t, promoted.Roles.Has(models.RoleGuest))
	assert.True(t, promoted.Roles.Has(models.RoleSubscriber))
	assert.True(t, promoted.HasPassword())

	// The role grant and the password land together: a verified login proves
	// the stored digest matches the password given at promotion time.
	_, err = svc.Login(sub.Email, "secret")
	assert.NoError(t, err)

	t.Run("requires admin", func(t *testing.T) {
		_, err := svc.MakeGuest(asPrincipal(sub), sub.ID, "x")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("admin target rejected", func(t *testing.T) {
		_, err := svc.MakeGuest(asPrincipal(admin), admin.ID, "x")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestRemoveGuest(t *testing.T) {
	svc, _ := newUserService()
	guest := seedUser(t, svc, "gwen", models.RoleGuest)
	admin := seedUser(t, svc, "alice", models.RoleAdmin)

	demoted, err := svc.RemoveGuest(asPrincipal(admin), guest.ID)
	require.NoError(t, err)
	assert.False(t, demoted.Roles.Has(models.RoleGuest))
	assert.False(t, demoted.HasPassword())

	_, err = svc.Login(guest.Email, "pw-gwen")
	assert.ErrorIs(t, err, ErrAuthFailed)

	t.Run("non-guest target rejected", func(t *testing.T) {
		_, err := svc.RemoveGuest(asPrincipal(admin), demoted.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestMakeAdminSuperGate(t *testing.T) {
	svc, _ := newUserService()
	sub := seedUser(t, svc, "carl")
	admin := seedUser(t, svc, "alice", models.RoleAdmin)

	t.Run("plain admin cannot mint admins", func(t *testing.T) {
		_, err := svc.MakeAdmin(asPrincipal(admin), sub.ID, "x")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("super identity can", func(t *testing.T) {
		super := &auth.Principal{ID: 999, Username: superName}
		promoted, err := svc.MakeAdmin(super, sub.ID, "adminpw")
		require.NoError(t, err)
		assert.True(t, promoted.Roles.Has(models.RoleAdmin))

		_, err = svc.Login(sub.Email, "adminpw")
		assert.NoError(t, err)
	})
}

func TestUpdateDetails(t *testing.T) {
	svc, _ := newUserService()
	guest := seedUser(t, svc, "gwen", models.RoleGuest)
	other := seedUser(t, svc, "olly", models.RoleGuest)

	updated, err := svc.UpdateDetails(asPrincipal(guest), guest.ID, "gwendolyn", "")
	require.NoError(t, err)
	assert.Equal(t, "gwendolyn", updated.Username)
	assert.Equal(t, guest.Email, updated.Email)

	t.Run("cannot edit another profile", func(t *testing.T) {
		_, err := svc.UpdateDetails(asPrincipal(guest), other.ID, "hijacked", "")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("subscribers cannot edit their profile", func(t *testing.T) {
		sub := seedUser(t, svc, "sue")
		_, err := svc.UpdateDetails(asPrincipal(sub), sub.ID, "susan", "")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newUserService()
	guest := seedUser(t, svc, "gwen", models.RoleGuest)

	_, err := svc.UpdatePassword(asPrincipal(guest), guest.ID, "rotated")
	require.NoError(t, err)

	_, err = svc.Login(guest.Email, "pw-gwen")
	assert.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.Login(guest.Email, "rotated")
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newUserService()
	sub := seedUser(t, svc, "sam")
	visitor, err := svc.FindOrCreateCommenter("vinny", "vinny@example.com")
	require.NoError(t, err)
	admin := seedUser(t, svc, "alice", models.RoleAdmin)
	otherAdmin := seedUser(t, svc, "amber", models.RoleAdmin)

	deleted, err := svc.DeleteUser(asPrincipal(admin), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, deleted.ID)
	_, err = svc.Get(sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	t.Run("admins are not deletable", func(t *testing.T) {
		_, err := svc.DeleteUser(asPrincipal(admin), otherAdmin.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("plain visitors are not deletable", func(t *testing.T) {
		_, err := svc.DeleteUser(asPrincipal(admin), visitor.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("requires admin", func(t *testing.T) {
		target := seedUser(t, svc, "tom")
		_, err := svc.DeleteUser(asPrincipal(target), target.ID)
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestListNonAdminsHidesAdmins(t *testing.T) {
	svc, _ := newUserService()
	seedUser(t, svc, "sam")
	seedUser(t, svc, "alice", models.RoleAdmin)

	users, err := svc.ListNonAdmins()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "sam", users[0].Username)
}

func TestFindOrCreateCommenter(t *testing.T) {
	svc, _ := newUserService()
	existing := seedUser(t, svc, "sam")

	found, err := svc.FindOrCreateCommenter("different-name", existing.Email)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, found.ID)

	fresh, err := svc.FindOrCreateCommenter("newbie", "newbie@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, fresh.ID)
	assert.True(t, fresh.Roles.Has(models.RoleVisitor))
	assert.False(t, fresh.Roles.Has(models.RoleSubscriber))
}
