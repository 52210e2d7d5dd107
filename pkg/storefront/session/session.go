// Package session decides at startup whether the storefront runs as a guest
// or an authenticated user, and drives the one-shot guest sync on login.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/syncer"
)

// State is a step of the bootstrap state machine.
type State int

const (
	StateInit State = iota
	StateGuestLoaded
	StateCredentialSet
	StateAuthenticated
	StateSynced
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGuestLoaded:
		return "guest_loaded"
	case StateCredentialSet:
		return "credential_set"
	case StateAuthenticated:
		return "authenticated"
	case StateSynced:
		return "synced"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// API is the account surface of the storefront client.
type API interface {
	Login(ctx context.Context, email, password string) (*storefront.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*storefront.Profile, error)
}

// CredentialStore persists the bearer token.
type CredentialStore interface {
	Authenticated() bool
	SetToken(token string) error
	Clear() error
}

// Syncer runs the guest-to-server sync.
type Syncer interface {
	Sync(ctx context.Context) syncer.Report
}

// Loader refreshes client state from its current source.
type Loader interface {
	Load(ctx context.Context) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) error

func (f LoaderFunc) Load(ctx context.Context) error { return f(ctx) }

// Gate reports whether the session is signed in. The cart and wishlist
// services read it to pick their backend, so a stored credential the server
// has not confirmed still reads as a guest.
type Gate struct {
	on atomic.Bool
}

func NewGate() *Gate { return &Gate{} }

// Authenticated is true only in Authenticated and Synced.
func (g *Gate) Authenticated() bool { return g.on.Load() }

// Option configures a Controller.
type Option func(*Controller)

// WithGate shares gate with the services built before the controller.
func WithGate(gate *Gate) Option {
	return func(c *Controller) {
		if gate != nil {
			c.gate = gate
		}
	}
}

// Controller owns the session state.
type Controller struct {
	api    API
	creds  CredentialStore
	syncer Syncer
	guest  Loader
	gate   *Gate
	logg   *logger.Logger

	mu      sync.Mutex
	state   State
	profile *storefront.Profile
	report  syncer.Report
}

// NewController wires the state machine. guest reloads the locally stored
// cart and wishlist.
func NewController(api API, creds CredentialStore, s Syncer, guest Loader, logg *logger.Logger, opts ...Option) *Controller {
	if logg == nil {
		logg = logger.Nop()
	}
	c := &Controller{api: api, creds: creds, syncer: s, guest: guest, gate: NewGate(), logg: logg, state: StateInit}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Authenticated reports whether the server has confirmed the session.
func (c *Controller) Authenticated() bool {
	return c.gate.Authenticated()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Profile returns the signed-in user, or nil for guests.
func (c *Controller) Profile() *storefront.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// LastSync returns the report of the most recent sync.
func (c *Controller) LastSync() syncer.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// Start runs the bootstrap from Init. A stored credential that the server
// rejects leaves the session in GuestLoaded.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx = c.logg.WithComponent(ctx, "session")
	if c.state != StateInit {
		return fmt.Errorf("session already started (%s)", c.state)
	}
	if !c.creds.Authenticated() {
		return c.enterGuest(ctx)
	}
	c.state = StateCredentialSet
	return c.authenticate(ctx)
}

// Login exchanges credentials for a token and runs the sync.
func (c *Controller) Login(ctx context.Context, email, password string) (*storefront.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAuthenticated || c.state == StateSynced {
		return c.profile, nil
	}
	res, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.creds.SetToken(res.AccessToken); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	c.state = StateCredentialSet
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}
	if c.state != StateSynced {
		return nil, fmt.Errorf("login rejected")
	}
	return c.profile, nil
}

// Logout clears the credential and returns to guest mode. The next login
// syncs again.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAuthenticated || c.state == StateSynced {
		if err := c.api.Logout(ctx); err != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "server logout failed")
		}
	}
	if err := c.creds.Clear(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	c.profile = nil
	c.report = syncer.Report{}
	return c.enterGuest(ctx)
}

// authenticate runs from CredentialSet.
func (c *Controller) authenticate(ctx context.Context) error {
	profile, err := c.api.Me(ctx)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "profile fetch failed, continuing as guest")
		if storefront.IsUnauthorized(err) {
			if clearErr := c.creds.Clear(); clearErr != nil {
				c.logg.Error(ctx, "clear rejected credential failed", clearErr)
			}
		}
		return c.enterGuest(ctx)
	}
	c.profile = profile
	c.state = StateAuthenticated
	c.gate.on.Store(true)

	c.report = c.syncer.Sync(ctx)
	c.state = StateSynced
	c.logg.Info(c.logg.WithUserID(ctx, profile.ID), "session authenticated")
	return nil
}

func (c *Controller) enterGuest(ctx context.Context) error {
	c.state = StateGuestLoaded
	c.gate.on.Store(false)
	if c.guest == nil {
		return nil
	}
	if err := c.guest.Load(ctx); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "loading guest state failed")
	}
	return nil
}
