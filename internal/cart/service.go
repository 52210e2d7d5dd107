package cart

import (
	"context"
	"fmt"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages the authenticated user's server cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) error
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*MutationResult, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productLookup interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLookup
}

func NewService(r *Repository, products productLookup) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{repo: r, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, itemFromModel(&rows[i]))
	}
	return &CartDTO{Items: items}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) error {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		return repo.MapNotFound(err, "product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.Upsert(ctx, userID, productID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add to cart")
	}
	return nil
}

// Update applies a single increase/decrease/delete step. A decrease that would
// drop below 1 fails and leaves the line unchanged.
func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*MutationResult, error) {
	itemID, err := uuid.Parse(req.CartItemID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item id")
	}
	if !req.Action.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid action %q", req.Action)
	}

	var result *MutationResult
	err = s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithDB(tx)
		item, err := txRepo.FindItem(ctx, userID, itemID)
		if err != nil {
			return repo.MapNotFound(err, "cart item")
		}

		next := item.Quantity
		switch req.Action {
		case enums.CartActionIncrease:
			next++
		case enums.CartActionDecrease:
			if item.Quantity <= 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be less than 1")
			}
			next--
		case enums.CartActionDelete:
			if err := txRepo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
			}
			result = &MutationResult{CartItemID: item.ID, Quantity: 0}
			return nil
		}

		if err := txRepo.SetQuantity(ctx, item.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
		result = &MutationResult{CartItemID: item.ID, Quantity: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.ClearForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}
