package wishlist

import (
	"context"
	"fmt"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes business rules for wishlist management.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error)
	Toggle(ctx context.Context, userID uuid.UUID, req ToggleRequest) (*ToggleResult, error)
}

type productLookup interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLookup
}

// NewService builds a wishlist service with the required dependencies.
func NewService(r *Repository, products productLookup) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("wishlist repo is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup is required")
	}
	return &service{repo: r, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}
	items := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, EntryDTO{
			ID:    row.Product.ID,
			Name:  row.Product.Name,
			Price: pricing.Float(row.Product.EffectivePrice()),
			Slug:  row.Product.Slug,
			Image: row.Product.Image,
		})
	}
	return &WishlistDTO{Items: items}, nil
}

// Toggle removes the product when present, otherwise adds it.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID, req ToggleRequest) (*ToggleResult, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		return nil, repo.MapNotFound(err, "product")
	}

	var result *ToggleResult
	err = s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := NewRepository(tx)
		removed, err := txRepo.RemoveItem(ctx, userID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
		}
		if removed {
			result = &ToggleResult{ProductID: productID, InWishlist: false}
			return nil
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err := txRepo.AddItem(ctx, userID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
		}
		result = &ToggleResult{ProductID: productID, InWishlist: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
