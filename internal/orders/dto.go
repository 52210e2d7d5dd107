package orders

import (
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
	"github.com/google/uuid"
)

type OrderItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"lineTotal"`
}

type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"userId"`
	Status          enums.OrderStatus `json:"status"`
	Subtotal        float64           `json:"subtotal"`
	ShippingFee     float64           `json:"shippingFee"`
	Tax             float64           `json:"tax"`
	Total           float64           `json:"total"`
	Currency        string            `json:"currency"`
	ContactNumber   string            `json:"contactNumber"`
	BillingAddress  types.Address     `json:"billing"`
	ShippingAddress types.Address     `json:"shipping"`
	Items           []OrderItemDTO    `json:"items"`
	PaidAt          *time.Time        `json:"paidAt,omitempty"`
	CancelledAt     *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type OrderListResult struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// UpdateStatusRequest is the admin status change payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid processing out_for_delivery delivered cancelled"`
}

func FromModel(o *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: pricing.Float(item.UnitPrice),
			Quantity:  item.Quantity,
			LineTotal: pricing.Float(item.LineTotal),
		})
	}
	return OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		Subtotal:        pricing.Float(o.Subtotal),
		ShippingFee:     pricing.Float(o.ShippingFee),
		Tax:             pricing.Float(o.Tax),
		Total:           pricing.Float(o.Total),
		Currency:        o.Currency,
		ContactNumber:   o.ContactNumber,
		BillingAddress:  o.BillingAddress,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		PaidAt:          o.PaidAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
	}
}
