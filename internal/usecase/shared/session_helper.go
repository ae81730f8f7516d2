package shared

import (
	"fmt"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
)

// RequireSession loads the stored session and fails unless it is usable.
// It centralizes the common pattern of:
//
//	session, err := store.Load()
//	if err != nil { return nil, fmt.Errorf("load session: %w", err) }
//	if !session.IsAuthenticated() { return nil, domain.ErrNotLoggedIn }
//
// A JWT whose exp claim is before now yields domain.ErrSessionExpired.
func RequireSession(store domain.SessionStore, now time.Time) (*domain.Session, error) {
	session, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.IsAuthenticated() {
		return nil, domain.ErrNotLoggedIn
	}
	if session.IsExpired(now) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}
