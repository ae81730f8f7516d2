package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
)

// RegisterInput contains the parameters for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterOutput contains the result of creating an account.
type RegisterOutput struct {
	Session *domain.Session
}

// Register creates an account and logs in as it.
type Register struct {
	auth     domain.AuthService
	sessions domain.SessionStore
	cache    domain.CacheInvalidator
}

// NewRegister creates a new Register use case.
func NewRegister(auth domain.AuthService, sessions domain.SessionStore, cache domain.CacheInvalidator) *Register {
	return &Register{
		auth:     auth,
		sessions: sessions,
		cache:    cache,
	}
}

// Execute registers the account and stores the resulting session.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	reg := domain.Registration{Username: in.Username, Email: in.Email, Password: in.Password}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	res, err := uc.auth.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	session, err := persistSession(uc.sessions, uc.cache, res)
	if err != nil {
		return nil, err
	}
	return &RegisterOutput{Session: session}, nil
}
