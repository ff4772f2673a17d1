package policycheck

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token and the user record.
// Authentication failures surface as *APIError with status 401.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &result); err != nil {
		return LoginResult{}, err
	}
	if result.AccessToken == "" {
		return LoginResult{}, fmt.Errorf("login response missing access token")
	}
	return result, nil
}

// Register creates a new account and returns the created user. It does not
// authenticate; callers decide whether to log in afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Me returns the user record for the current bearer token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
