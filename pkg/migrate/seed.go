package migrate

import (
	"context"
	"errors"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	name, slug, price, category, occasion string
	stock                                 int
	featured                              bool
}

var (
	seedCategories = []models.Category{
		{Name: "Flowers", Slug: "flowers"},
		{Name: "Cakes", Slug: "cakes"},
		{Name: "Gifts", Slug: "gifts"},
	}
	seedOccasions = []models.Occasion{
		{Name: "Birthday", Slug: "birthday"},
		{Name: "Anniversary", Slug: "anniversary"},
		{Name: "Get Well Soon", Slug: "get-well-soon"},
	}
	seedProducts = []seedProduct{
		{"Red Rose Bouquet", "red-rose-bouquet", "50.00", "flowers", "anniversary", 40, true},
		{"Sunflower Basket", "sunflower-basket", "35.00", "flowers", "get-well-soon", 25, false},
		{"Chocolate Fudge Cake", "chocolate-fudge-cake", "45.00", "cakes", "birthday", 15, true},
		{"Teddy and Roses Combo", "teddy-and-roses-combo", "75.00", "gifts", "anniversary", 10, false},
	}
)

// SeedCatalog inserts a small demo catalog when no products exist yet.
func SeedCatalog(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		categories := map[string]*models.Category{}
		for i := range seedCategories {
			c := seedCategories[i]
			if err := tx.Where("slug = ?", c.Slug).FirstOrCreate(&c).Error; err != nil {
				return err
			}
			categories[c.Slug] = &c
		}
		occasions := map[string]*models.Occasion{}
		for i := range seedOccasions {
			o := seedOccasions[i]
			if err := tx.Where("slug = ?", o.Slug).FirstOrCreate(&o).Error; err != nil {
				return err
			}
			occasions[o.Slug] = &o
		}

		for _, sp := range seedProducts {
			category, ok := categories[sp.category]
			if !ok {
				return errors.New("seed product references unknown category " + sp.category)
			}
			occasion, ok := occasions[sp.occasion]
			if !ok {
				return errors.New("seed product references unknown occasion " + sp.occasion)
			}
			product := models.Product{
				Name:       sp.name,
				Slug:       sp.slug,
				Price:      decimal.RequireFromString(sp.price),
				CategoryID: &category.ID,
				OccasionID: &occasion.ID,
				Stock:      sp.stock,
				IsFeatured: sp.featured,
				IsActive:   true,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
