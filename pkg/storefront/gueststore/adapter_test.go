package gueststore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterReadsEmptyOnMissingOrCorrupt(t *testing.T) {
	store := NewMemory()
	adapter := NewAdapter(store, nil)

	assert.Empty(t, adapter.ReadCart())
	assert.Empty(t, adapter.ReadWishlist())

	require.NoError(t, store.Set(KeyCart, []byte("{not json")))
	assert.Empty(t, adapter.ReadCart())
}

func TestAdapterWriteReplacesAndClearRemovesKey(t *testing.T) {
	store := NewMemory()
	adapter := NewAdapter(store, nil)

	require.NoError(t, adapter.WriteCart([]storefront.CartLineItem{{CartItemID: "a", ProductID: "a", Quantity: 1}}))
	require.NoError(t, adapter.WriteCart([]storefront.CartLineItem{{CartItemID: "b", ProductID: "b", Quantity: 2}}))
	items := adapter.ReadCart()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ProductID)

	require.NoError(t, adapter.ClearCart())
	_, ok, err := store.Get(KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorageRoundTripAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	require.NoError(t, err)

	adapter := NewAdapter(store, nil)
	require.NoError(t, adapter.WriteWishlist([]storefront.ProductSnapshot{{ID: "p1", Name: "Roses", Price: 25}}))

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	got := NewAdapter(reopened, nil).ReadWishlist()
	require.Len(t, got, 1)
	assert.Equal(t, "Roses", got[0].Name)

	require.NoError(t, adapter.ClearWishlist())
	_, err = os.Stat(filepath.Join(dir, KeyWishlist+".json"))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, adapter.ClearWishlist())
}

func TestFileStorageRejectsBadKeys(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Set("../escape", []byte("x")))
}

func TestCredentials(t *testing.T) {
	creds := NewCredentials(NewMemory())
	assert.False(t, creds.Authenticated())

	require.NoError(t, creds.SetToken(" abc "))
	token, err := creds.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.True(t, creds.Authenticated())

	require.NoError(t, creds.Clear())
	assert.False(t, creds.Authenticated())
}
