// Package session owns the operator's authentication state.
//
// One Controller is constructed at startup and handed to every component
// that needs it. It boots synchronously from the credential store, drives
// login/logout against the auth API, and derives authenticated/admin flags
// from current state on every read.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/policycheck/clerk/internal/credstore"
	"github.com/policycheck/clerk/internal/policycheck"
)

// State is the controller's lifecycle position.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

// AuthAPI is the slice of the API client the controller needs. Implemented
// by *policycheck.Client.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (policycheck.LoginResult, error)
	Register(ctx context.Context, req policycheck.RegisterRequest) (policycheck.User, error)
}

var _ AuthAPI = (*policycheck.Client)(nil)

// Controller orchestrates login and logout against the credential store and
// the auth resource client.
type Controller struct {
	mu    sync.Mutex
	store *credstore.Store
	auth  AuthAPI
	state State
}

// New builds a Controller. Construction reads any persisted session from the
// store: when both a token and a user are present the controller starts
// Authenticated, otherwise Unauthenticated. No network I/O happens here.
func New(store *credstore.Store, auth AuthAPI) *Controller {
	c := &Controller{store: store, auth: auth}
	if store.Token() != "" && store.User() != nil {
		c.state = Authenticated
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAuthenticated reports whether a token and a user record are both
// present. Recomputed on every call, never cached separately.
func (c *Controller) IsAuthenticated() bool {
	return c.store.Token() != "" && c.store.User() != nil
}

// IsAdmin reports whether the current user carries the admin role.
func (c *Controller) IsAdmin() bool {
	user := c.store.User()
	return user != nil && user.IsAdmin()
}

// CurrentUser returns a copy of the cached user record, or nil.
func (c *Controller) CurrentUser() *credstore.User {
	return c.store.User()
}

// Login authenticates against the API and persists the resulting token and
// user as a single unit. On failure the controller stays Unauthenticated and
// the error is returned for the caller to render.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	c.mu.Lock()
	c.state = Authenticating
	c.mu.Unlock()

	result, err := c.auth.Login(ctx, username, password)
	if err != nil {
		c.setState(Unauthenticated)
		return err
	}

	user := credstore.User{
		ID:       result.User.ID,
		Username: result.User.Username,
		Name:     result.User.Name,
		Role:     result.User.Role,
		Country:  result.User.Country,
	}
	if err := c.store.Save(result.AccessToken, user); err != nil {
		c.setState(Unauthenticated)
		return fmt.Errorf("persist session: %w", err)
	}

	c.setState(Authenticated)
	return nil
}

// Logout clears the credential store and returns to Unauthenticated. It is
// synchronous, idempotent, and never touches the network.
func (c *Controller) Logout() {
	c.store.Clear()
	c.setState(Unauthenticated)
}

// Register creates a new account and returns the created user. The
// controller's own state is untouched; callers decide whether to follow up
// with Login.
func (c *Controller) Register(ctx context.Context, req policycheck.RegisterRequest) (policycheck.User, error) {
	return c.auth.Register(ctx, req)
}

// HandleUnauthorized is the session-teardown half of the 401 response hook:
// it drops the persisted session so the next isAuthenticated read is false.
// Navigation back to the login view is the UI's half.
func (c *Controller) HandleUnauthorized() {
	c.Logout()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
