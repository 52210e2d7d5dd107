package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex:blogs_slug_key"`
	Excerpt     string     `gorm:"column:excerpt"`
	Content     string     `gorm:"column:content;not null"`
	CoverImage  string     `gorm:"column:cover_image"`
	Author      string     `gorm:"column:author"`
	Published   bool       `gorm:"column:published;not null;default:false"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Blog) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}
