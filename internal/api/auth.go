package api

import (
	"context"
	"net/http"

	"care-connect/client/internal/session/domain"
)

// LoginResult is the backend's answer to a successful credential login.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current session token on the backend. An already
// expired token comes back as ErrUnauthorized; callers treat revocation as
// best effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// CurrentUser fetches the authoritative user record for the session token.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type adminStatusResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// FetchAdminStatus asks the backend whether the session's user holds admin
// standing right now.
func (c *Client) FetchAdminStatus(ctx context.Context) (bool, error) {
	var out adminStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/admin-status", nil, &out); err != nil {
		return false, err
	}
	return out.IsAdmin, nil
}
