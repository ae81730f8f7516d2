// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
)

// errNoToken is returned when the API accepts credentials but sends no token back.
var errNoToken = errors.New("server returned no token")

// LoginInput contains the parameters for logging in.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the result of logging in.
type LoginOutput struct {
	Session *domain.Session
}

// Login exchanges credentials for a session and persists it.
type Login struct {
	auth     domain.AuthService
	sessions domain.SessionStore
	cache    domain.CacheInvalidator
}

// NewLogin creates a new Login use case.
func NewLogin(auth domain.AuthService, sessions domain.SessionStore, cache domain.CacheInvalidator) *Login {
	return &Login{
		auth:     auth,
		sessions: sessions,
		cache:    cache,
	}
}

// Execute logs in and stores the token and user together.
// Cached reads from a previous account are discarded.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	creds := domain.Credentials{Username: in.Username, Password: in.Password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	res, err := uc.auth.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	session, err := persistSession(uc.sessions, uc.cache, res)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{Session: session}, nil
}

// persistSession saves an auth result as the current session.
func persistSession(store domain.SessionStore, cache domain.CacheInvalidator, res *domain.AuthResult) (*domain.Session, error) {
	session := domain.NewSession(res)
	if !session.IsAuthenticated() {
		return nil, errNoToken
	}
	if err := store.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if cache != nil {
		cache.Clear()
	}
	return session, nil
}
