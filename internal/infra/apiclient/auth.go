package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zentasks/zentasks/internal/domain"
)

// errNoToken is returned when a login response carries no token.
var errNoToken = errors.New("server returned no token")

// Login exchanges credentials for a token. No bearer token is sent.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var out authResponse
	_, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		body:   creds,
		out:    &out,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login: %w", errNoToken)
	}
	return &domain.AuthResult{User: out.User.toDomain(), Token: out.Token}, nil
}

// Register creates an account. If the server does not return a token,
// the client logs in with the same credentials.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	var out authResponse
	_, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/register",
		body:   reg,
		out:    &out,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if out.Token != "" {
		return &domain.AuthResult{User: out.User.toDomain(), Token: out.Token}, nil
	}

	c.logger.Debug("register returned no token, logging in", "username", reg.Username)
	res, err := c.Login(ctx, reg.Credentials())
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		res.User = out.User.toDomain()
	}
	return res, nil
}

// Status returns the account the server associates with session's token.
// A rejected token surfaces as an error matching domain.ErrUnauthorized.
func (c *Client) Status(ctx context.Context, session *domain.Session) (*domain.User, error) {
	bound := c.WithSession(session)
	if err := bound.requireSession(); err != nil {
		return nil, err
	}
	var out userDTO
	_, err := bound.send(ctx, request{
		method: http.MethodGet,
		path:   "/auth/status",
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("auth status: %w", err)
	}
	return out.toDomain(), nil
}
