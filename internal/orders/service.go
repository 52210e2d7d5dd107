package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes order reads and lifecycle transitions.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, filters AdminFilters, params pagination.Params) (*OrderListResult, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	MarkPaid(ctx context.Context, stripeSessionID string) (*OrderDTO, error)
	CancelBySession(ctx context.Context, stripeSessionID string) (*OrderDTO, error)
	ExpirePending(ctx context.Context, olderThan time.Duration) (int64, error)
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(r Repository, tx txRunner) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo: r,
		tx:   tx,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildList(rows, params.Limit), nil
}

func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, repo.MapNotFound(err, "order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, filters AdminFilters, params pagination.Params) (*OrderListResult, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListAll(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildList(rows, params.Limit), nil
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, repo.MapNotFound(err, "order")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", next)
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByID(ctx, orderID)
		if err != nil {
			return repo.MapNotFound(err, "order")
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", order.Status, next)
		}

		extra := map[string]any{}
		now := s.now()
		switch next {
		case enums.OrderStatusPaid:
			extra["paid_at"] = now
		case enums.OrderStatusCancelled:
			extra["cancelled_at"] = now
		}
		ok, err := txRepo.UpdateStatus(ctx, orderID, order.Status, next, extra)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}
		if next == enums.OrderStatusPaid {
			if _, err := cart.NewRepository(tx).ClearForUser(ctx, order.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
			}
		}

		updated, err = txRepo.FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(updated)
	return &dto, nil
}

// MarkPaid records a completed payment for the order behind a checkout
// session and empties the buyer's cart. Repeated calls are no-ops.
func (s *service) MarkPaid(ctx context.Context, stripeSessionID string) (*OrderDTO, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.findBySession(ctx, txRepo, stripeSessionID)
		if err != nil {
			return err
		}
		switch order.Status {
		case enums.OrderStatusPending:
		case enums.OrderStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order was cancelled before payment completed")
		default:
			result = order
			return nil
		}

		ok, err := txRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPaid, map[string]any{"paid_at": s.now()})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}
		if _, err := cart.NewRepository(tx).ClearForUser(ctx, order.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		result, err = txRepo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(result)
	return &dto, nil
}

// CancelBySession cancels a pending order whose checkout session expired.
// Orders that already left pending are returned unchanged.
func (s *service) CancelBySession(ctx context.Context, stripeSessionID string) (*OrderDTO, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.findBySession(ctx, txRepo, stripeSessionID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPending {
			result = order
			return nil
		}
		if _, err := txRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled, map[string]any{"cancelled_at": s.now()}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		result, err = txRepo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(result)
	return &dto, nil
}

func (s *service) ExpirePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("expiry window must be positive")
	}
	now := s.now()
	count, err := s.repo.CancelPendingBefore(ctx, now.Add(-olderThan), now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expire pending orders")
	}
	return count, nil
}

func (s *service) findBySession(ctx context.Context, r Repository, sessionID string) (*models.Order, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stripe session id required")
	}
	order, err := r.FindByStripeSession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "no order for session %s", sessionID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func buildList(rows []models.Order, limit int) *OrderListResult {
	page := pagination.Build(rows, limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	items := make([]OrderDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, FromModel(&page.Items[i]))
	}
	return &OrderListResult{Items: items, NextCursor: page.NextCursor}
}
