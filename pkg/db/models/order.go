package models

import (
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending';index:orders_status_idx"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal   `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	Tax             decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Currency        string            `gorm:"column:currency;not null;default:'usd'"`
	ContactNumber   string            `gorm:"column:contact_number;not null"`
	BillingAddress  types.Address     `gorm:"column:billing_address;type:jsonb;not null"`
	ShippingAddress types.Address     `gorm:"column:shipping_address;type:jsonb;not null"`
	StripeSessionID *string           `gorm:"column:stripe_session_id;uniqueIndex:orders_stripe_session_id_key"`
	PaidAt          *time.Time        `gorm:"column:paid_at"`
	CancelledAt     *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime;index:orders_created_at_idx"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	for i := range o.Items {
		assignID(&o.Items[i].ID)
		o.Items[i].OrderID = o.ID
	}
	return nil
}

// OrderItem snapshots the product at checkout time.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Image     string          `gorm:"column:image"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
