package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes catalog browsing and admin management.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, idOrSlug string) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]TaxonomyDTO, error)
	CreateCategory(ctx context.Context, input TaxonomyInput) (*TaxonomyDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListOccasions(ctx context.Context) ([]TaxonomyDTO, error)
	CreateOccasion(ctx context.Context, input TaxonomyInput) (*TaxonomyDTO, error)
	DeleteOccasion(ctx context.Context, id uuid.UUID) error
}

// ListProductsInput captures the browse filters and cursor.
type ListProductsInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Slug          string           `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Image         string           `json:"image" validate:"omitempty,url"`
	CategoryID    *uuid.UUID       `json:"categoryId,omitempty"`
	OccasionID    *uuid.UUID       `json:"occasionId,omitempty"`
	Stock         int              `json:"stock" validate:"gte=0"`
	IsFeatured    bool             `json:"isFeatured"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	ClearDiscount bool             `json:"clearDiscount,omitempty"`
	Image         *string          `json:"image,omitempty" validate:"omitempty,url"`
	CategoryID    *uuid.UUID       `json:"categoryId,omitempty"`
	OccasionID    *uuid.UUID       `json:"occasionId,omitempty"`
	Stock         *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsFeatured    *bool            `json:"isFeatured,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

// TaxonomyInput creates a category or occasion.
type TaxonomyInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type service struct {
	repo *Repository
}

func NewService(r *Repository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: r}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if _, err := pagination.ParseCursor(input.Pagination.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListProducts(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	page := pagination.Build(rows, input.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})

	items := make([]ProductDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, FromModel(&page.Items[i]))
	}
	return &ProductListResult{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) GetProduct(ctx context.Context, idOrSlug string) (*ProductDTO, error) {
	key := strings.TrimSpace(idOrSlug)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id or slug is required")
	}

	var (
		p   *models.Product
		err error
	)
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		p, err = s.repo.FindProductByID(ctx, id)
	} else {
		p, err = s.repo.FindProductBySlug(ctx, strings.ToLower(key))
	}
	if err != nil {
		return nil, repo.MapNotFound(err, "product")
	}
	if !p.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := FromModel(p)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePrices(input.Price, input.DiscountPrice); err != nil {
		return nil, err
	}
	if err := s.checkTaxonomy(ctx, input.CategoryID, input.OccasionID); err != nil {
		return nil, err
	}

	base := Slugify(input.Slug)
	if base == "" {
		base = Slugify(input.Name)
	}
	slug, err := uniqueSlug(ctx, base, s.repo.ProductSlugExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product name")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	p := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Slug:          slug,
		Description:   input.Description,
		Price:         input.Price.Round(2),
		DiscountPrice: roundPtr(input.DiscountPrice),
		Image:         input.Image,
		CategoryID:    input.CategoryID,
		OccasionID:    input.OccasionID,
		Stock:         input.Stock,
		IsFeatured:    input.IsFeatured,
		IsActive:      active,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		if db.IsUniqueViolation(err, "products_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.reload(ctx, p.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	current, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, repo.MapNotFound(err, "product")
	}

	price := current.Price
	if input.Price != nil {
		price = *input.Price
	}
	discount := current.DiscountPrice
	if input.DiscountPrice != nil {
		discount = input.DiscountPrice
	}
	if input.ClearDiscount {
		discount = nil
	}
	if err := validatePrices(price, discount); err != nil {
		return nil, err
	}
	if err := s.checkTaxonomy(ctx, input.CategoryID, input.OccasionID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = input.Price.Round(2)
	}
	if input.DiscountPrice != nil || input.ClearDiscount {
		updates["discount_price"] = roundPtr(discount)
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.OccasionID != nil {
		updates["occasion_id"] = *input.OccasionID
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
			return nil, repo.MapNotFound(err, "product")
		}
	}
	return s.reload(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return repo.MapNotFound(s.repo.DeleteProduct(ctx, id), "product")
}

func (s *service) ListCategories(ctx context.Context) ([]TaxonomyDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]TaxonomyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, categoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input TaxonomyInput) (*TaxonomyDTO, error) {
	slug, err := uniqueSlug(ctx, Slugify(input.Name), s.repo.CategorySlugExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category name")
	}
	c := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Image:       input.Image,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	dto := categoryDTO(c)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return repo.MapNotFound(s.repo.DeleteCategory(ctx, id), "category")
}

func (s *service) ListOccasions(ctx context.Context) ([]TaxonomyDTO, error) {
	rows, err := s.repo.ListOccasions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list occasions")
	}
	out := make([]TaxonomyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, occasionDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateOccasion(ctx context.Context, input TaxonomyInput) (*TaxonomyDTO, error) {
	slug, err := uniqueSlug(ctx, Slugify(input.Name), s.repo.OccasionSlugExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid occasion name")
	}
	o := &models.Occasion{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Image:       input.Image,
	}
	if err := s.repo.CreateOccasion(ctx, o); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create occasion")
	}
	dto := occasionDTO(o)
	return &dto, nil
}

func (s *service) DeleteOccasion(ctx context.Context, id uuid.UUID) error {
	return repo.MapNotFound(s.repo.DeleteOccasion(ctx, id), "occasion")
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	p, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, repo.MapNotFound(err, "product")
	}
	dto := FromModel(p)
	return &dto, nil
}

func (s *service) checkTaxonomy(ctx context.Context, categoryID, occasionID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *categoryID); err != nil {
			if pkgerrors.Is(repo.MapNotFound(err, "category"), pkgerrors.CodeNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
	}
	if occasionID != nil {
		if _, err := s.repo.FindOccasionByID(ctx, *occasionID); err != nil {
			if pkgerrors.Is(repo.MapNotFound(err, "occasion"), pkgerrors.CodeNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown occasion")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load occasion")
		}
	}
	return nil
}

func validatePrices(price decimal.Decimal, discount *decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if discount != nil {
		if discount.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount price must not be negative")
		}
		if discount.GreaterThan(price) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount price must not exceed price")
		}
	}
	return nil
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Round(2)
	return &v
}
