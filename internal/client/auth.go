package client

import (
	"context"
	"net/http"

	"folio/internal/models"
)

// User is the identity the API reports for a logged-in caller.
type User struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// AuthResult is the token pair returned by login and refresh.
type AuthResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	in := map[string]string{"username": username, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	in := map[string]string{"refresh_token": refreshToken}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current refresh token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Profile returns the caller's identity.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
