package blogs

import (
	"context"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, b *models.Blog) error {
	return r.DB(ctx).Create(b).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.DB(ctx).Model(&models.Blog{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var b models.Blog
	if err := r.DB(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	if err := r.DB(ctx).First(&b, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Blog{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a buffered page, newest first.
func (r *Repository) List(ctx context.Context, publishedOnly bool, params pagination.Params) ([]models.Blog, error) {
	query := r.DB(ctx).Model(&models.Blog{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	query, err := pagination.Apply(query, "", params)
	if err != nil {
		return nil, err
	}
	var rows []models.Blog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
