package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/testutil"
	"github.com/zentasks/zentasks/internal/usecase"
)

func authResult() *domain.AuthResult {
	return &domain.AuthResult{
		User:  &domain.User{ID: "u-7", Username: "bob", Email: "bob@example.com"},
		Token: "tok-7",
	}
}

func TestLogin_Execute(t *testing.T) {
	t.Run("stores session and clears cache", func(t *testing.T) {
		// Setup
		auth := &testutil.MockAuthService{Result: authResult()}
		store := &testutil.MockSessionStore{}
		cache := &testutil.MockCache{}
		uc := usecase.NewLogin(auth, store, cache)

		// Execute
		out, err := uc.Execute(context.Background(), usecase.LoginInput{Username: "bob", Password: "secret"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "tok-7", out.Session.Token)
		assert.Equal(t, "bob", out.Session.User.Username)
		assert.Equal(t, out.Session, store.Session)
		assert.Equal(t, "bob", auth.LastCreds.Username)
		assert.Equal(t, 1, cache.ClearCalls)
	})

	t.Run("validates before calling the API", func(t *testing.T) {
		auth := &testutil.MockAuthService{Result: authResult()}
		store := &testutil.MockSessionStore{}
		uc := usecase.NewLogin(auth, store, &testutil.MockCache{})

		_, err := uc.Execute(context.Background(), usecase.LoginInput{Username: "bob"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
		assert.Empty(t, auth.LastCreds.Username)
		assert.Nil(t, store.Session)
	})

	t.Run("auth failure leaves the store untouched", func(t *testing.T) {
		auth := &testutil.MockAuthService{LoginErr: &domain.HTTPError{Status: 401, Message: "Invalid username or password"}}
		store := &testutil.MockSessionStore{}
		uc := usecase.NewLogin(auth, store, &testutil.MockCache{})

		_, err := uc.Execute(context.Background(), usecase.LoginInput{Username: "bob", Password: "wrong"})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, store.Session)
	})

	t.Run("missing token is an error", func(t *testing.T) {
		auth := &testutil.MockAuthService{Result: &domain.AuthResult{User: &domain.User{ID: "1"}}}
		store := &testutil.MockSessionStore{}
		uc := usecase.NewLogin(auth, store, &testutil.MockCache{})

		_, err := uc.Execute(context.Background(), usecase.LoginInput{Username: "bob", Password: "secret"})

		assert.Error(t, err)
		assert.Nil(t, store.Session)
	})

	t.Run("save failure is reported", func(t *testing.T) {
		auth := &testutil.MockAuthService{Result: authResult()}
		store := &testutil.MockSessionStore{SaveErr: errors.New("read-only")}
		uc := usecase.NewLogin(auth, store, &testutil.MockCache{})

		_, err := uc.Execute(context.Background(), usecase.LoginInput{Username: "bob", Password: "secret"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save session")
	})
}

func TestRegister_Execute(t *testing.T) {
	t.Run("registers and stores session", func(t *testing.T) {
		// Setup
		auth := &testutil.MockAuthService{Result: authResult()}
		store := &testutil.MockSessionStore{}
		uc := usecase.NewRegister(auth, store, &testutil.MockCache{})

		// Execute
		out, err := uc.Execute(context.Background(), usecase.RegisterInput{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "password123",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "tok-7", store.Session.Token)
		assert.Equal(t, out.Session, store.Session)
		assert.Equal(t, "bob@example.com", auth.LastReg.Email)
	})

	t.Run("rejects invalid registration", func(t *testing.T) {
		auth := &testutil.MockAuthService{Result: authResult()}
		uc := usecase.NewRegister(auth, &testutil.MockSessionStore{}, &testutil.MockCache{})

		_, err := uc.Execute(context.Background(), usecase.RegisterInput{
			Username: "bo",
			Email:    "not-an-email",
			Password: "short",
		})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 3)
		assert.Empty(t, auth.LastReg.Username)
	})

	t.Run("conflict is wrapped", func(t *testing.T) {
		auth := &testutil.MockAuthService{RegisterErr: &domain.HTTPError{Status: 409, Message: "Username already exists"}}
		uc := usecase.NewRegister(auth, &testutil.MockSessionStore{}, &testutil.MockCache{})

		_, err := uc.Execute(context.Background(), usecase.RegisterInput{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "password123",
		})

		assert.Equal(t, 409, domain.StatusCode(err))
		assert.Contains(t, err.Error(), "Username already exists")
	})
}

func TestLogout_Execute(t *testing.T) {
	t.Run("clears session and cache", func(t *testing.T) {
		// Setup
		store := loggedIn()
		cache := &testutil.MockCache{}
		uc := usecase.NewLogout(store, cache)

		// Execute
		out, err := uc.Execute(context.Background(), usecase.LogoutInput{})

		// Assert
		require.NoError(t, err)
		assert.True(t, out.WasLoggedIn)
		assert.Equal(t, "alice", out.User.Username)
		assert.Nil(t, store.Session)
		assert.Equal(t, 1, store.ClearCalls)
		assert.Equal(t, 1, cache.ClearCalls)
	})

	t.Run("succeeds with nothing stored", func(t *testing.T) {
		store := &testutil.MockSessionStore{}
		cache := &testutil.MockCache{}

		out, err := usecase.NewLogout(store, cache).Execute(context.Background(), usecase.LogoutInput{})

		require.NoError(t, err)
		assert.False(t, out.WasLoggedIn)
		assert.Equal(t, 1, store.ClearCalls)
		assert.Equal(t, 1, cache.ClearCalls)
	})

	t.Run("clears even when the stored state is unreadable", func(t *testing.T) {
		store := &testutil.MockSessionStore{LoadErr: errors.New("corrupt")}
		cache := &testutil.MockCache{}

		_, err := usecase.NewLogout(store, cache).Execute(context.Background(), usecase.LogoutInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, store.ClearCalls)
		assert.Equal(t, 1, cache.ClearCalls)
	})

	t.Run("reports clear failure after clearing cache", func(t *testing.T) {
		store := &testutil.MockSessionStore{ClearErr: errors.New("permission denied")}
		cache := &testutil.MockCache{}

		_, err := usecase.NewLogout(store, cache).Execute(context.Background(), usecase.LogoutInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "clear session")
		assert.Equal(t, 1, cache.ClearCalls)
	})
}

func TestWhoAmI_Execute(t *testing.T) {
	t.Run("verified by the server", func(t *testing.T) {
		// Setup
		store := loggedIn()
		store.Session.User.Role = domain.RoleAdmin
		auth := &testutil.MockAuthService{StatusUser: &domain.User{ID: "u-1", Username: "alice", Email: "alice@new.example.com"}}

		// Execute
		out, err := usecase.NewWhoAmI(auth, store, newClock()).Execute(context.Background(), usecase.WhoAmIInput{})

		// Assert
		require.NoError(t, err)
		assert.True(t, out.Verified)
		assert.Empty(t, out.Warning)
		assert.Equal(t, "alice@new.example.com", out.User.Email)
		assert.Equal(t, domain.RoleAdmin, out.User.Role, "role kept from the stored session")
		assert.False(t, out.HasExpiresAt)
		assert.Equal(t, 1, auth.StatusCalls)
	})

	t.Run("rejected token", func(t *testing.T) {
		auth := &testutil.MockAuthService{StatusErr: &domain.HTTPError{Status: 401, Message: "Invalid token"}}

		_, err := usecase.NewWhoAmI(auth, loggedIn(), newClock()).Execute(context.Background(), usecase.WhoAmIInput{})

		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("server unreachable falls back to stored user", func(t *testing.T) {
		auth := &testutil.MockAuthService{StatusErr: errors.New("dial tcp: connection refused")}

		out, err := usecase.NewWhoAmI(auth, loggedIn(), newClock()).Execute(context.Background(), usecase.WhoAmIInput{})

		require.NoError(t, err)
		assert.False(t, out.Verified)
		assert.Equal(t, "alice", out.User.Username)
		assert.Contains(t, out.Warning, "connection refused")
	})

	t.Run("local skips the server", func(t *testing.T) {
		auth := &testutil.MockAuthService{StatusErr: errors.New("must not be called")}

		out, err := usecase.NewWhoAmI(auth, loggedIn(), newClock()).Execute(context.Background(), usecase.WhoAmIInput{Local: true})

		require.NoError(t, err)
		assert.Equal(t, "alice", out.User.Username)
		assert.False(t, out.Verified)
		assert.Zero(t, auth.StatusCalls)
	})

	t.Run("not logged in", func(t *testing.T) {
		auth := &testutil.MockAuthService{}

		_, err := usecase.NewWhoAmI(auth, &testutil.MockSessionStore{}, newClock()).Execute(context.Background(), usecase.WhoAmIInput{})

		assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
		assert.Zero(t, auth.StatusCalls)
	})
}
