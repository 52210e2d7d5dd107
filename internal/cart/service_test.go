package cart

import (
	"context"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type dbProducts struct {
	db *gorm.DB
}

func (d dbProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := d.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func newCartFixture(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := repo.NewTestDB(t)
	svc, err := NewService(NewRepository(db), dbProducts{db: db})
	require.NoError(t, err)
	return svc, db
}

func mustProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Slug: uuid.NewString(), Price: decimal.RequireFromString(price), IsActive: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	user := uuid.New()
	rose := mustProduct(t, db, "Rose", "12.50")

	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: rose.ID.String()}))
	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: rose.ID.String(), Quantity: 2}))

	cart, err := svc.Get(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, rose.ID, cart.Items[0].Product.ID)
	assert.Equal(t, 12.5, cart.Items[0].Product.Price)
}

func TestAddRejectsUnknownOrInactiveProduct(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	user := uuid.New()

	err := svc.Add(ctx, user, AddRequest{ProductID: uuid.NewString()})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	hidden := mustProduct(t, db, "Hidden", "1")
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)
	err = svc.Add(ctx, user, AddRequest{ProductID: hidden.ID.String()})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = svc.Add(ctx, user, AddRequest{ProductID: "not-a-uuid"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestUpdateSteps(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	user := uuid.New()
	cake := mustProduct(t, db, "Cake", "30")

	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: cake.ID.String()}))
	cart, err := svc.Get(ctx, user)
	require.NoError(t, err)
	itemID := cart.Items[0].ID.String()

	res, err := svc.Update(ctx, user, UpdateRequest{CartItemID: itemID, Action: enums.CartActionIncrease})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Quantity)

	res, err = svc.Update(ctx, user, UpdateRequest{CartItemID: itemID, Action: enums.CartActionDecrease})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Quantity)
}

func TestDecreaseAtOneFailsWithoutChange(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	user := uuid.New()
	cake := mustProduct(t, db, "Cake", "30")

	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: cake.ID.String()}))
	cart, err := svc.Get(ctx, user)
	require.NoError(t, err)

	_, err = svc.Update(ctx, user, UpdateRequest{CartItemID: cart.Items[0].ID.String(), Action: enums.CartActionDecrease})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	cart, err = svc.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestDeleteThenFetchOmitsItem(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	user := uuid.New()
	a := mustProduct(t, db, "A", "10")
	b := mustProduct(t, db, "B", "20")

	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: a.ID.String()}))
	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: b.ID.String()}))
	cart, err := svc.Get(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	target := cart.Items[0]
	res, err := svc.Update(ctx, user, UpdateRequest{CartItemID: target.ID.String(), Action: enums.CartActionDelete})
	require.NoError(t, err)
	assert.Zero(t, res.Quantity)

	cart, err = svc.Get(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.NotEqual(t, target.ID, cart.Items[0].ID)

	_, err = svc.Update(ctx, user, UpdateRequest{CartItemID: target.ID.String(), Action: enums.CartActionDelete})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestUpdateIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	owner := uuid.New()
	p := mustProduct(t, db, "P", "5")

	require.NoError(t, svc.Add(ctx, owner, AddRequest{ProductID: p.ID.String()}))
	cart, err := svc.Get(ctx, owner)
	require.NoError(t, err)

	_, err = svc.Update(ctx, uuid.New(), UpdateRequest{CartItemID: cart.Items[0].ID.String(), Action: enums.CartActionIncrease})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc, db := newCartFixture(t)
	user := uuid.New()
	p := mustProduct(t, db, "P", "5")

	require.NoError(t, svc.Add(ctx, user, AddRequest{ProductID: p.ID.String()}))
	require.NoError(t, svc.Clear(ctx, user))

	cart, err := svc.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
