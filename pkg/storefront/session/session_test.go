package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	meErr     error
	loginErr  error
	meCalls   int
	logouts   int
	lastEmail string
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*storefront.LoginResult, error) {
	f.lastEmail = email
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &storefront.LoginResult{AccessToken: "token-1"}, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logouts++
	return nil
}

func (f *fakeAPI) Me(context.Context) (*storefront.Profile, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &storefront.Profile{ID: "u1", Email: "ada@example.com"}, nil
}

type countingSyncer struct {
	runs int
}

func (s *countingSyncer) Sync(context.Context) syncer.Report {
	s.runs++
	return syncer.Report{CartAdded: 2}
}

type countingLoader struct {
	loads int
}

func (l *countingLoader) Load(context.Context) error {
	l.loads++
	return nil
}

func newController(api *fakeAPI) (*Controller, *gueststore.Credentials, *countingSyncer, *countingLoader) {
	creds := gueststore.NewCredentials(gueststore.NewMemory())
	s := &countingSyncer{}
	l := &countingLoader{}
	return NewController(api, creds, s, l, nil), creds, s, l
}

func TestStartWithoutCredentialLoadsGuest(t *testing.T) {
	api := &fakeAPI{}
	c, _, s, l := newController(api)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateGuestLoaded, c.State())
	assert.Zero(t, api.meCalls)
	assert.Zero(t, s.runs)
	assert.Equal(t, 1, l.loads)
	assert.Nil(t, c.Profile())
}

func TestStartWithCredentialSyncsOnce(t *testing.T) {
	api := &fakeAPI{}
	c, creds, s, _ := newController(api)
	require.NoError(t, creds.SetToken("stored"))

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateSynced, c.State())
	assert.Equal(t, 1, s.runs)
	assert.Equal(t, 2, c.LastSync().CartAdded)
	assert.Equal(t, "u1", c.Profile().ID)

	require.Error(t, c.Start(context.Background()))
	assert.Equal(t, 1, s.runs)
}

func TestStartWithRejectedCredentialFallsBackToGuest(t *testing.T) {
	api := &fakeAPI{meErr: &storefront.APIError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED"}}
	c, creds, s, l := newController(api)
	require.NoError(t, creds.SetToken("expired"))

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateGuestLoaded, c.State())
	assert.False(t, creds.Authenticated())
	assert.Zero(t, s.runs)
	assert.Equal(t, 1, l.loads)
}

// unreachableCart fails every remote cart call.
type unreachableCart struct {
	hits int
}

func (u *unreachableCart) GetCart(context.Context) ([]storefront.ServerCartItem, error) {
	u.hits++
	return nil, &storefront.APIError{Status: http.StatusServiceUnavailable, Message: "down"}
}

func (u *unreachableCart) AddCartItem(context.Context, string, int) error {
	u.hits++
	return &storefront.APIError{Status: http.StatusServiceUnavailable, Message: "down"}
}

func (u *unreachableCart) UpdateCartItem(context.Context, string, storefront.CartAction) (*storefront.CartMutation, error) {
	u.hits++
	return nil, &storefront.APIError{Status: http.StatusServiceUnavailable, Message: "down"}
}

func TestStartKeepsCredentialOnNetworkFailure(t *testing.T) {
	ctx := context.Background()
	store := gueststore.NewMemory()
	adapter := gueststore.NewAdapter(store, nil)
	require.NoError(t, adapter.WriteCart([]storefront.CartLineItem{
		{CartItemID: "p1", ProductID: "p1", Name: "Tulips", Price: 12, Quantity: 3},
	}))
	creds := gueststore.NewCredentials(store)
	require.NoError(t, creds.SetToken("stored"))

	remote := &unreachableCart{}
	gate := NewGate()
	carts := cart.NewService(remote, adapter, gate, nil)
	loader := LoaderFunc(func(ctx context.Context) error {
		_, err := carts.Fetch(ctx)
		return err
	})
	api := &fakeAPI{meErr: errors.New("dial tcp: connection refused")}
	c := NewController(api, creds, &countingSyncer{}, loader, nil, WithGate(gate))

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, StateGuestLoaded, c.State())
	assert.True(t, creds.Authenticated())
	assert.False(t, c.Authenticated())

	shown := carts.Current()
	require.Len(t, shown.Items, 1)
	assert.Equal(t, 3, shown.Items[0].Quantity)

	_, err := carts.Add(ctx, "p2", 1, &storefront.ProductSnapshot{ID: "p2", Name: "Lilies", Price: 8})
	require.NoError(t, err)
	assert.Len(t, adapter.ReadCart(), 2)
	assert.Zero(t, remote.hits)
}

func TestGateFollowsSessionState(t *testing.T) {
	api := &fakeAPI{}
	gate := NewGate()
	creds := gueststore.NewCredentials(gueststore.NewMemory())
	c := NewController(api, creds, &countingSyncer{}, &countingLoader{}, nil, WithGate(gate))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.False(t, gate.Authenticated())

	_, err := c.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, gate.Authenticated())
	assert.True(t, c.Authenticated())

	require.NoError(t, c.Logout(ctx))
	assert.False(t, gate.Authenticated())
}

func TestLoginLogoutRearmsSync(t *testing.T) {
	api := &fakeAPI{}
	c, creds, s, l := newController(api)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	profile, err := c.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, StateSynced, c.State())
	assert.True(t, creds.Authenticated())
	assert.Equal(t, 1, s.runs)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, StateGuestLoaded, c.State())
	assert.False(t, creds.Authenticated())
	assert.Equal(t, 1, api.logouts)
	assert.Equal(t, 2, l.loads)
	assert.Nil(t, c.Profile())

	_, err = c.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, 2, s.runs)
}

func TestLoginFailureStaysGuest(t *testing.T) {
	api := &fakeAPI{loginErr: &storefront.APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}}
	c, creds, s, _ := newController(api)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	_, err := c.Login(ctx, "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, storefront.IsUnauthorized(err))
	assert.Equal(t, StateGuestLoaded, c.State())
	assert.False(t, creds.Authenticated())
	assert.Zero(t, s.runs)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "synced", StateSynced.String())
	assert.Equal(t, "state(9)", State(9).String())
}
