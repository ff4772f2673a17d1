package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/policycheck/clerk/internal/apitest"
	"github.com/policycheck/clerk/internal/credstore"
	"github.com/policycheck/clerk/internal/policycheck"
	"github.com/policycheck/clerk/internal/session"
)

type fixture struct {
	server *apitest.Server
	store  *credstore.Store
	client *policycheck.Client
	ctrl   *session.Controller
	path   string
	ctx    context.Context
}

// newFixture wires a controller the way the application does: the client
// reads its bearer token from the store and clears it on a 401.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	server := apitest.New()
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "session.toml")
	store, err := credstore.Open(path)
	if err != nil {
		t.Fatalf("credstore.Open returned error: %v", err)
	}

	client, err := policycheck.NewClient(server.URL,
		policycheck.WithRequestHook(policycheck.BearerToken(store.Token)),
		policycheck.WithResponseHook(policycheck.OnUnauthorized(store.Clear)),
	)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	return &fixture{
		server: server,
		store:  store,
		client: client,
		ctrl:   session.New(store, client),
		path:   path,
		ctx:    ctx,
	}
}

func TestController_StartsUnauthenticatedWithEmptyStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if f.ctrl.State() != session.Unauthenticated {
		t.Fatalf("State = %v, want unauthenticated", f.ctrl.State())
	}
	if f.ctrl.IsAuthenticated() {
		t.Fatalf("IsAuthenticated = true with empty store")
	}
	if f.ctrl.CurrentUser() != nil {
		t.Fatalf("CurrentUser = %+v, want nil", f.ctrl.CurrentUser())
	}
}

func TestController_BootsFromPersistedSession(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.toml")
	seed, err := credstore.Open(path)
	if err != nil {
		t.Fatalf("credstore.Open returned error: %v", err)
	}
	if err := seed.Save("persisted-token", credstore.User{ID: 1, Username: "op", Role: "admin"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	store, err := credstore.Open(path)
	if err != nil {
		t.Fatalf("credstore.Open returned error: %v", err)
	}
	ctrl := session.New(store, nil)
	if ctrl.State() != session.Authenticated {
		t.Fatalf("State = %v, want authenticated from persisted session", ctrl.State())
	}
	if !ctrl.IsAdmin() {
		t.Fatalf("IsAdmin = false for persisted admin user")
	}
}

func TestLogin_PersistsTokenAndUserTogether(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.ctrl.Login(f.ctx, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if f.ctrl.State() != session.Authenticated || !f.ctrl.IsAuthenticated() {
		t.Fatalf("controller not authenticated after login")
	}
	user := f.ctrl.CurrentUser()
	if user == nil || user.Username != apitest.Username {
		t.Fatalf("CurrentUser = %+v, want %q", user, apitest.Username)
	}

	// The pair must survive a process restart.
	reopened, err := credstore.Open(f.path)
	if err != nil {
		t.Fatalf("credstore.Open returned error: %v", err)
	}
	if reopened.Token() != apitest.Token || reopened.User() == nil {
		t.Fatalf("persisted session incomplete: token=%q user=%v", reopened.Token(), reopened.User())
	}
}

func TestLogin_FailureLeavesNoSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.ctrl.Login(f.ctx, apitest.Username, "wrong")
	if !policycheck.IsUnauthorized(err) {
		t.Fatalf("Login error = %v, want 401 APIError", err)
	}
	if f.ctrl.State() != session.Unauthenticated || f.ctrl.IsAuthenticated() {
		t.Fatalf("controller authenticated after failed login")
	}
	if _, err := os.Stat(f.path); !os.IsNotExist(err) {
		t.Fatalf("session file written on failed login")
	}
}

func TestLogout_IsIdempotentAndLocal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.ctrl.Login(f.ctx, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Logout must not touch the network: kill the server first.
	f.server.Close()

	f.ctrl.Logout()
	if f.ctrl.IsAuthenticated() || f.ctrl.State() != session.Unauthenticated {
		t.Fatalf("controller still authenticated after logout")
	}
	if _, err := os.Stat(f.path); !os.IsNotExist(err) {
		t.Fatalf("session file still present after logout")
	}

	f.ctrl.Logout()
}

func TestLogin_CachesAdminRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.server.SetUser(apitest.UserRecord{ID: 1, Username: apitest.Username, Name: "Admin One", Role: "admin", Country: "NZ"})

	if err := f.ctrl.Login(f.ctx, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !f.ctrl.IsAdmin() {
		t.Fatalf("IsAdmin = false after logging in as admin")
	}
}

func TestRegister_DoesNotChangeSessionState(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user, err := f.ctrl.Register(f.ctx, policycheck.RegisterRequest{Username: "newbie", Password: "pw", Name: "New"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "newbie" {
		t.Fatalf("user = %+v, want newbie", user)
	}
	if f.ctrl.State() != session.Unauthenticated || f.ctrl.IsAuthenticated() {
		t.Fatalf("Register changed session state")
	}
}

func TestUnauthorizedResponse_TearsDownSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.ctrl.Login(f.ctx, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Corrupt the stored token so the next protected call gets a 401. The
	// response hook clears the store, which flips isAuthenticated for every
	// later read.
	if err := f.store.Save("stale-token", credstore.User{Username: apitest.Username}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := f.client.Me(f.ctx); !policycheck.IsUnauthorized(err) {
		t.Fatalf("Me error = %v, want 401", err)
	}
	if f.ctrl.IsAuthenticated() {
		t.Fatalf("IsAuthenticated = true after 401 teardown")
	}
}

func TestHandleUnauthorized_EquivalentToLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.ctrl.Login(f.ctx, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.ctrl.HandleUnauthorized()
	if f.ctrl.IsAuthenticated() || f.ctrl.State() != session.Unauthenticated {
		t.Fatalf("session survived HandleUnauthorized")
	}
}
