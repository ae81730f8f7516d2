package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/usecase/shared"
)

// WhoAmIInput contains the parameters for inspecting the current session.
type WhoAmIInput struct {
	Local bool // Skip the server check and report the stored session only
}

// WhoAmIOutput describes the current session.
// Fields are ordered to minimize memory padding.
type WhoAmIOutput struct {
	ExpiresAt    time.Time    // Token expiry (zero if unknown)
	User         *domain.User // Server-reported user when verified, else the stored one (may be nil)
	Warning      string       // Why the server could not confirm the session
	HasExpiresAt bool
	Verified     bool // The server accepted the token
}

// WhoAmI reports the logged-in user.
type WhoAmI struct {
	auth     domain.AuthService
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewWhoAmI creates a new WhoAmI use case.
func NewWhoAmI(auth domain.AuthService, sessions domain.SessionStore, clock domain.Clock) *WhoAmI {
	return &WhoAmI{
		auth:     auth,
		sessions: sessions,
		clock:    clock,
	}
}

// Execute confirms the stored session with the server and returns its user.
// A token the server rejects yields ErrSessionExpired. When the server cannot
// be reached the stored user is returned with a Warning.
func (uc *WhoAmI) Execute(ctx context.Context, in WhoAmIInput) (*WhoAmIOutput, error) {
	session, err := shared.RequireSession(uc.sessions, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	out := &WhoAmIOutput{User: session.User}
	out.ExpiresAt, out.HasExpiresAt = session.ExpiresAt()
	if in.Local {
		return out, nil
	}

	user, err := uc.auth.Status(ctx, session)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return nil, fmt.Errorf("%w: server rejected the token", domain.ErrSessionExpired)
	case errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		out.Warning = "could not verify session: " + err.Error()
		return out, nil
	}

	out.Verified = true
	if user != nil {
		if user.Role == "" && session.User != nil {
			user.Role = session.User.Role
		}
		out.User = user
	}
	return out, nil
}
