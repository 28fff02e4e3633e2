package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/auth"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

func newAccounts(t *testing.T) (*app.AccountService, *memStore) {
	t.Helper()
	iss, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	store := newMemStore()
	return app.NewAccountService(store, iss, bcrypt.MinCost), store
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	svc, store := newAccounts(t)

	s, err := svc.SignUp(ctx, "  Amira@Example.com ", "secret1")
	require.NoError(t, err)
	assert.True(t, s.Created)
	assert.Equal(t, "amira@example.com", s.User.Email)
	assert.NotEmpty(t, s.Access.Token)
	assert.Contains(t, store.profiles, s.User.ID)

	t.Run("same password signs in", func(t *testing.T) {
		again, err := svc.SignUp(ctx, "amira@example.com", "secret1")
		require.NoError(t, err)
		assert.False(t, again.Created)
		assert.Equal(t, s.User.ID, again.User.ID)
	})

	t.Run("different password is a conflict", func(t *testing.T) {
		_, err := svc.SignUp(ctx, "amira@example.com", "other-pass")
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.SignUp(ctx, "", "secret1")
		assert.ErrorIs(t, err, domain.ErrInvalid)
		_, err = svc.SignUp(ctx, "x@example.com", "123")
		assert.ErrorIs(t, err, domain.ErrInvalid)
	})
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, store := newAccounts(t)
	s, err := svc.SignUp(ctx, "sami@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "sami@example.com", "wrong-pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	got, err := svc.Login(ctx, "SAMI@example.com", "secret1")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, got.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, u.ID)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	admin, err := svc.IsAdmin(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, admin)
	store.admins[u.ID] = true
	admin, err = svc.IsAdmin(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newAccounts(t)
	s, err := svc.SignUp(ctx, "gone@example.com", "secret1")
	require.NoError(t, err)
	delete(store.users, s.User.ID)

	_, err = svc.Authenticate(ctx, s.Access.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
