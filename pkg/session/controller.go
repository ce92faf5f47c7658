// Package session holds the client-side session state machine. A
// Controller is the single shared access point to "who is signed in":
// the web runtime builds one per request from the cookie store, the
// terminal runtime one per process from the SQLite store. All state
// changes go through the named transitions; there is no direct field
// mutation from outside.
package session

import (
	"context"

	"github.com/logitrack/clients/pkg/authsvc"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

type State int

const (
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "initializing"
	}
}

// Navigator is the redirect side effect of the login/logout
// transitions. Keeping it behind an interface keeps the controller
// free of any navigation primitive: echo redirects for the web
// runtime, plain messages for the terminal one.
type Navigator interface {
	ToDashboard()
	ToLogin()
}

type nopNavigator struct{}

func (nopNavigator) ToDashboard() {}
func (nopNavigator) ToLogin()     {}

// NopNavigator is for flows that carry no redirect, such as tests and
// one-shot CLI commands.
var NopNavigator Navigator = nopNavigator{}

// Controller is single-threaded by design: the UI invokes at most one
// session-mutating operation at a time (buttons disable while a
// request is in flight), so there is no internal locking.
type Controller struct {
	svc   *authsvc.Service
	store store.Store
	nav   Navigator

	user  *models.User
	state State
	ready bool
}

func NewController(svc *authsvc.Service, st store.Store, nav Navigator) *Controller {
	if nav == nil {
		nav = NopNavigator
	}
	return &Controller{svc: svc, store: st, nav: nav, state: StateInitializing}
}

func (c *Controller) State() State  { return c.state }
func (c *Controller) Ready() bool   { return c.ready }
func (c *Controller) Authenticated() bool { return c.user != nil }

// User returns a copy of the current user, or nil when anonymous.
func (c *Controller) User() *models.User {
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Initialize resolves the Initializing state: silent restore when the
// store has a token, Anonymous otherwise. It runs once; later calls
// are no-ops. Only after it returns does Ready report true, so the UI
// can hold a loading indicator instead of flashing the wrong screen.
func (c *Controller) Initialize(ctx context.Context) {
	if c.ready {
		return
	}
	defer func() { c.ready = true }()

	if !c.store.HasToken() {
		c.state = StateAnonymous
		return
	}

	res := c.svc.CurrentUser(ctx)
	if res.Success && res.Data != nil {
		c.user = res.Data
		c.state = StateAuthenticated
		return
	}

	// Fail closed: a token we cannot turn into a user is torn down
	// completely, never kept as a stale session.
	c.svc.Logout(ctx)
	c.user = nil
	c.state = StateAnonymous
}

// Login is the Anonymous → Authenticated transition. On failure the
// controller stays Anonymous and the result is returned for the UI to
// render inline.
func (c *Controller) Login(ctx context.Context, creds models.LoginCredentials) models.Result[models.AuthPayload] {
	res := c.svc.Login(ctx, creds)
	if res.Success && res.Data != nil {
		c.setAuthenticated(res.Data.User)
		c.nav.ToDashboard()
	}
	return res
}

// Register establishes a session exactly as Login does.
func (c *Controller) Register(ctx context.Context, data models.RegisterData) models.Result[models.AuthPayload] {
	res := c.svc.Register(ctx, data)
	if res.Success && res.Data != nil {
		c.setAuthenticated(res.Data.User)
		c.nav.ToDashboard()
	}
	return res
}

// Logout is the Authenticated → Anonymous transition. Calling it when
// already Anonymous is a no-op: no network call, no redirect.
func (c *Controller) Logout(ctx context.Context) {
	if c.ready && c.state == StateAnonymous && !c.store.HasToken() {
		return
	}
	c.svc.Logout(ctx)
	c.user = nil
	c.state = StateAnonymous
	c.ready = true
	c.nav.ToLogin()
}

// Invalidate is the forced teardown for a 401 detected upstream. The
// transport has already cleared the store at that point; this unwinds
// the in-memory half and redirects.
func (c *Controller) Invalidate(ctx context.Context) {
	c.Logout(ctx)
}

// RefreshUser re-fetches the profile from the API, bypassing the
// cache, and updates the in-memory user on success. State is
// unchanged on failure.
func (c *Controller) RefreshUser(ctx context.Context) models.Result[models.User] {
	if c.state != StateAuthenticated {
		return models.FailField[models.User]("Not signed in", models.FieldGeneral, "Not signed in")
	}

	snap, ok, _ := c.store.Load()
	if ok {
		// Drop only the cached profile so CurrentUser takes the live
		// path; tokens stay in place. Restored if the fetch fails.
		if err := c.store.Save(models.User{}, snap.Access, snap.Refresh); err != nil {
			return c.svc.CurrentUser(ctx)
		}
	}

	res := c.svc.CurrentUser(ctx)
	if res.Success && res.Data != nil {
		c.user = res.Data
	} else if ok && c.store.HasToken() {
		// Put the previous profile back after a failed fetch. When the
		// failure was a 401 the transport already emptied the store and
		// nothing is restored.
		if err := c.store.Save(snap.User, snap.Access, snap.Refresh); err != nil {
			c.store.Clear()
		}
	}
	return res
}

func (c *Controller) setAuthenticated(user models.User) {
	u := user
	c.user = &u
	c.state = StateAuthenticated
	c.ready = true
}
