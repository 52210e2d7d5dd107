package products

import (
	"context"
	"strings"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilters narrows the product browse query.
type ListFilters struct {
	CategorySlug    string
	OccasionSlug    string
	Query           string
	Featured        *bool
	IncludeInactive bool
}

// Repository persists catalog records.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB(ctx).Create(p).Error
}

func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProduct removes the product along with cart and wishlist references.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.withRelations(r.DB(ctx)).First(&p, "products.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := r.withRelations(r.DB(ctx)).First(&p, "products.slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductsByIDs returns the requested products keyed by id. Missing ids are absent.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *Repository) ProductSlugExists(ctx context.Context, slug string) (bool, error) {
	return r.slugExists(ctx, &models.Product{}, slug)
}

// ListProducts returns one buffered page; callers trim with pagination.Build.
func (r *Repository) ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, error) {
	query := r.withRelations(r.DB(ctx).Model(&models.Product{}))
	if !filters.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if slug := strings.TrimSpace(filters.CategorySlug); slug != "" {
		query = query.Where("products.category_id IN (?)", r.DB(ctx).Model(&models.Category{}).Select("id").Where("slug = ?", slug))
	}
	if slug := strings.TrimSpace(filters.OccasionSlug); slug != "" {
		query = query.Where("products.occasion_id IN (?)", r.DB(ctx).Model(&models.Occasion{}).Select("id").Where("slug = ?", slug))
	}
	if q := strings.ToLower(strings.TrimSpace(filters.Query)); q != "" {
		like := "%" + q + "%"
		query = query.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
	}
	if filters.Featured != nil {
		query = query.Where("products.is_featured = ?", *filters.Featured)
	}

	query, err := pagination.Apply(query, "products", params)
	if err != nil {
		return nil, err
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB(ctx).Create(c).Error
}

func (r *Repository) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	return r.slugExists(ctx, &models.Category{}, slug)
}

// DeleteCategory detaches products before deleting so the drivers behave alike.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.deleteTaxonomy(ctx, "category_id", &models.Category{}, id)
}

func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.DB(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListOccasions(ctx context.Context) ([]models.Occasion, error) {
	var rows []models.Occasion
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateOccasion(ctx context.Context, o *models.Occasion) error {
	return r.DB(ctx).Create(o).Error
}

func (r *Repository) OccasionSlugExists(ctx context.Context, slug string) (bool, error) {
	return r.slugExists(ctx, &models.Occasion{}, slug)
}

func (r *Repository) DeleteOccasion(ctx context.Context, id uuid.UUID) error {
	return r.deleteTaxonomy(ctx, "occasion_id", &models.Occasion{}, id)
}

func (r *Repository) FindOccasionByID(ctx context.Context, id uuid.UUID) (*models.Occasion, error) {
	var o models.Occasion
	if err := r.DB(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Category").Preload("Occasion")
}

func (r *Repository) slugExists(ctx context.Context, model any, slug string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) deleteTaxonomy(ctx context.Context, column string, model any, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where(column+" = ?", id).Update(column, nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
