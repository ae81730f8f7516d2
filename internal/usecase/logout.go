package usecase

import (
	"context"
	"fmt"

	"github.com/zentasks/zentasks/internal/domain"
)

// LogoutInput contains the parameters for logging out.
type LogoutInput struct{}

// LogoutOutput contains the result of logging out.
type LogoutOutput struct {
	User        *domain.User // User that was logged in (nil if none)
	WasLoggedIn bool
}

// Logout discards the stored session and every cached read.
type Logout struct {
	sessions domain.SessionStore
	cache    domain.CacheInvalidator
}

// NewLogout creates a new Logout use case.
func NewLogout(sessions domain.SessionStore, cache domain.CacheInvalidator) *Logout {
	return &Logout{
		sessions: sessions,
		cache:    cache,
	}
}

// Execute clears the session store and the cache. Both are always cleared,
// even when no session was stored or the stored state could not be read.
func (uc *Logout) Execute(_ context.Context, _ LogoutInput) (*LogoutOutput, error) {
	out := &LogoutOutput{}
	if session, err := uc.sessions.Load(); err == nil && session.IsAuthenticated() {
		out.User = session.User
		out.WasLoggedIn = true
	}

	if uc.cache != nil {
		uc.cache.Clear()
	}
	if err := uc.sessions.Clear(); err != nil {
		return out, fmt.Errorf("clear session: %w", err)
	}
	return out, nil
}
