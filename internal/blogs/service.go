package blogs

import (
	"context"
	"fmt"
	"strings"
	"time"

	product "github.com/abdullahdev0325-ai/followers-shop-sub000/internal/products"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// BlogDTO is the public shape of a post.
type BlogDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Author      string     `json:"author,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type BlogListResult struct {
	Items      []BlogDTO `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

type CreateBlogInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Excerpt    string `json:"excerpt" validate:"max=500"`
	Content    string `json:"content" validate:"required"`
	CoverImage string `json:"coverImage" validate:"omitempty,url"`
	Author     string `json:"author" validate:"max=120"`
	Published  bool   `json:"published"`
}

type UpdateBlogInput struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Excerpt    *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content    *string `json:"content,omitempty"`
	CoverImage *string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Author     *string `json:"author,omitempty" validate:"omitempty,max=120"`
	Published  *bool   `json:"published,omitempty"`
}

type Service interface {
	ListPublished(ctx context.Context, params pagination.Params) (*BlogListResult, error)
	GetPublished(ctx context.Context, slug string) (*BlogDTO, error)
	ListAll(ctx context.Context, params pagination.Params) (*BlogListResult, error)
	Create(ctx context.Context, input CreateBlogInput) (*BlogDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBlogInput) (*BlogDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(r *Repository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	return &service{repo: r, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) ListPublished(ctx context.Context, params pagination.Params) (*BlogListResult, error) {
	return s.list(ctx, true, params)
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*BlogListResult, error) {
	return s.list(ctx, false, params)
}

func (s *service) GetPublished(ctx context.Context, slug string) (*BlogDTO, error) {
	b, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, repo.MapNotFound(err, "blog")
	}
	if !b.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
	}
	dto := fromModel(b)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateBlogInput) (*BlogDTO, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	slug, err := s.freeSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	b := &models.Blog{
		Title:      strings.TrimSpace(input.Title),
		Slug:       slug,
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Author:     input.Author,
		Published:  input.Published,
	}
	if input.Published {
		now := s.now()
		b.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, repo.MapWriteError(err, "blog")
	}
	dto := fromModel(b)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateBlogInput) (*BlogDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.MapNotFound(err, "blog")
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Excerpt != nil {
		updates["excerpt"] = *input.Excerpt
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "content cannot be empty")
		}
		updates["content"] = *input.Content
	}
	if input.CoverImage != nil {
		updates["cover_image"] = *input.CoverImage
	}
	if input.Author != nil {
		updates["author"] = *input.Author
	}
	if input.Published != nil {
		updates["published"] = *input.Published
		if *input.Published && current.PublishedAt == nil {
			updates["published_at"] = s.now()
		}
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, repo.MapNotFound(err, "blog")
		}
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.MapNotFound(err, "blog")
	}
	dto := fromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.MapNotFound(s.repo.Delete(ctx, id), "blog")
}

func (s *service) list(ctx context.Context, publishedOnly bool, params pagination.Params) (*BlogListResult, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, publishedOnly, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list blogs")
	}
	page := pagination.Build(rows, params.Limit, func(b models.Blog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
	})
	items := make([]BlogDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, fromModel(&page.Items[i]))
	}
	return &BlogListResult{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) freeSlug(ctx context.Context, title string) (string, error) {
	base := product.Slugify(title)
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title must contain letters or digits")
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func fromModel(b *models.Blog) BlogDTO {
	return BlogDTO{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Excerpt:     b.Excerpt,
		Content:     b.Content,
		CoverImage:  b.CoverImage,
		Author:      b.Author,
		Published:   b.Published,
		PublishedAt: b.PublishedAt,
		CreatedAt:   b.CreatedAt,
	}
}
