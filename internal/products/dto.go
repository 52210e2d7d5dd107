package products

import (
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/google/uuid"
)

// TaxonomyDTO is the public shape of a category or occasion.
type TaxonomyDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// ProductDTO is the public catalog shape. Prices are plain numbers on the wire.
type ProductDTO struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	DiscountPrice *float64     `json:"discountPrice,omitempty"`
	FinalPrice    float64      `json:"finalPrice"`
	Image         string       `json:"image"`
	Category      *TaxonomyDTO `json:"category,omitempty"`
	Occasion      *TaxonomyDTO `json:"occasion,omitempty"`
	Stock         int          `json:"stock"`
	IsFeatured    bool         `json:"isFeatured"`
	IsActive      bool         `json:"isActive"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// ProductListResult is one page of the browse endpoint.
type ProductListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

func FromModel(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       pricing.Float(p.Price),
		FinalPrice:  pricing.Float(p.EffectivePrice()),
		Image:       p.Image,
		Stock:       p.Stock,
		IsFeatured:  p.IsFeatured,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
	if p.DiscountPrice != nil {
		v := pricing.Float(*p.DiscountPrice)
		dto.DiscountPrice = &v
	}
	if p.Category != nil {
		c := categoryDTO(p.Category)
		dto.Category = &c
	}
	if p.Occasion != nil {
		o := occasionDTO(p.Occasion)
		dto.Occasion = &o
	}
	return dto
}

func categoryDTO(c *models.Category) TaxonomyDTO {
	return TaxonomyDTO{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description, Image: c.Image}
}

func occasionDTO(o *models.Occasion) TaxonomyDTO {
	return TaxonomyDTO{ID: o.ID, Name: o.Name, Slug: o.Slug, Description: o.Description, Image: o.Image}
}
