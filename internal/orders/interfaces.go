package orders

import (
	"context"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByStripeSession(ctx context.Context, sessionID string) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error)
	ListAll(ctx context.Context, filters AdminFilters, params pagination.Params) ([]models.Order, error)
	SetStripeSession(ctx context.Context, id uuid.UUID, sessionID string) error
	// UpdateStatus moves an order from one status to another and reports
	// false when the row was no longer in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, extra map[string]any) (bool, error)
	CancelPendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AdminFilters narrows the back-office order list.
type AdminFilters struct {
	Status *enums.OrderStatus
	UserID *uuid.UUID
}
