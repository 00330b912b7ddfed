package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// User is the account identity returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResult is a successful authentication: the bearer token, its
// expiry, and the account it belongs to.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// loginRequest is the auth endpoint's request body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend and installs the returned
// token on the client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	var result LoginResult
	if err := c.post(ctx, "/v1/auth/login", loginRequest{Email: email, Password: password}, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	c.SetToken(result.Token)
	return &result, nil
}

// Me returns the account behind the client's current token. Never
// cached: it is the freshness check for a stored session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, c.requestURL("/v1/auth/me", nil), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode current user: %w", err)
	}
	return &user, nil
}
