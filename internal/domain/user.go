package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole is the account role reported by the API.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is the authenticated account.
type User struct {
	CreatedAt time.Time `json:"createdAt,omitempty"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role,omitempty"`
}

// Credentials are sent to the login endpoint.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is sent to the register endpoint.
type Registration struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Credentials returns the login credentials for the registered account.
func (r Registration) Credentials() Credentials {
	return Credentials{Username: r.Username, Password: r.Password}
}

// AuthResult is the body returned by login and register.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Session is the explicit authentication context handed to the task client.
// It replaces any ambient "current user" lookup.
type Session struct {
	User  *User
	Token string
}

// NewSession builds a session from an auth result.
func NewSession(res *AuthResult) *Session {
	if res == nil {
		return nil
	}
	return &Session{User: res.User, Token: res.Token}
}

// IsAuthenticated returns true if the session carries a token.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// ExpiresAt returns the token's exp claim when the token is a JWT.
// The signature is not verified; the value is for display only.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if !s.IsAuthenticated() {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsExpired reports whether a JWT token's exp claim is before now.
// Opaque tokens never report expiry.
func (s *Session) IsExpired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !exp.After(now)
}
