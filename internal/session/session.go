// Package session tracks the signed-in principal: anonymous while
// nobody is logged in, authenticating while a credential check is in
// flight, authenticated afterwards. Role lookups are data driven
// through the users collection, never hardcoded.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/store"
	"github.com/dematic-gent/prodreg/internal/views"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Controller is the session state machine. It owns the transition
// rules; the actual credential checks live behind the gateway.
type Controller struct {
	mu       sync.RWMutex
	gw       gateway.Gateway
	users    *store.Store[models.User]
	state    State
	identity *gateway.Identity
}

func NewController(gw gateway.Gateway, users *store.Store[models.User]) *Controller {
	c := &Controller{gw: gw, users: users}
	// External auth events (badge scans, sign-outs elsewhere) move the
	// state machine the same way local logins do.
	gw.OnAuthStateChange(c.apply)
	return c
}

func (c *Controller) apply(identity *gateway.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if identity == nil {
		c.state = Anonymous
		c.identity = nil
		return
	}
	c.state = Authenticated
	c.identity = identity
}

// Login authenticates with email and password. On failure the session
// drops back to anonymous.
func (c *Controller) Login(ctx context.Context, email, password string) (*gateway.Identity, error) {
	c.setState(Authenticating)
	identity, err := c.gw.SignIn(ctx, email, password)
	if err != nil {
		c.apply(nil)
		return nil, err
	}
	c.apply(identity)
	return identity, nil
}

// LoginWithBadge authenticates from a badge scan.
func (c *Controller) LoginWithBadge(ctx context.Context, badgeID string) (*gateway.Identity, error) {
	c.setState(Authenticating)
	identity, err := c.gw.SignInWithBadge(ctx, badgeID)
	if err != nil {
		c.apply(nil)
		return nil, err
	}
	c.apply(identity)
	return identity, nil
}

// Recover restores a session from a still-valid token, e.g. after a
// restart of the client.
func (c *Controller) Recover(ctx context.Context, token string) (*gateway.Identity, error) {
	identity, err := c.gw.CurrentUser(ctx, token)
	if err != nil {
		c.apply(nil)
		return nil, err
	}
	c.apply(identity)
	return identity, nil
}

func (c *Controller) Logout(ctx context.Context) {
	c.gw.SignOut(ctx)
	c.apply(nil)
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Identity() *gateway.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// DisplayName derives the name shown in the UI: the profile name when
// set, otherwise the part of the email before the @, otherwise a
// generic placeholder.
func (c *Controller) DisplayName() string {
	c.mu.RLock()
	identity := c.identity
	c.mu.RUnlock()
	return DisplayName(identity)
}

func DisplayName(identity *gateway.Identity) string {
	if identity == nil {
		return ""
	}
	if identity.Name != "" {
		return identity.Name
	}
	if at := strings.Index(identity.Email, "@"); at > 0 {
		return identity.Email[:at]
	}
	return "Gebruiker"
}

// Role resolves the current user's role from the users collection by
// display name; unknown users get the normal role.
func (c *Controller) Role() string {
	c.mu.RLock()
	identity := c.identity
	c.mu.RUnlock()
	return RoleOf(identity, c.users.Current())
}

// RoleOf resolves an identity's role against a users snapshot. Request
// handlers use this with their own validated identity instead of the
// shared controller state.
func RoleOf(identity *gateway.Identity, users []models.User) string {
	name := DisplayName(identity)
	if name == "" {
		return ""
	}
	if u := views.FindUserByName(users, name); u != nil && u.Role != "" {
		return u.Role
	}
	return models.RoleUser
}

func (c *Controller) IsAdmin() bool {
	return c.Role() == models.RoleAdmin
}
