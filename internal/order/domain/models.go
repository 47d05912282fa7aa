package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Order is a placed checkout. Number is the customer-facing ULID; the
// snowflake ID stays internal. Amounts are frozen at placement time and
// never recomputed from the catalog.
type Order struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID snowflake.ID `json:"tenant_id" gorm:"not null;index"`
	Number   string       `json:"number" gorm:"type:varchar(32);not null;uniqueIndex"`

	CustomerName  string  `json:"customer_name" gorm:"type:text;not null"`
	CustomerEmail string  `json:"customer_email" gorm:"type:text;not null;index"`
	CustomerPhone *string `json:"customer_phone,omitempty" gorm:"type:text"`
	Address       string  `json:"address" gorm:"type:text;not null"`

	ShippingCode string `json:"shipping_code" gorm:"type:varchar(64);not null"`
	PaymentCode  string `json:"payment_code" gorm:"type:varchar(64);not null"`

	SubtotalCents   int64 `json:"subtotal_cents" gorm:"not null"`
	ShippingCents   int64 `json:"shipping_cents" gorm:"not null"`
	CODFeeCents     int64 `json:"cod_fee_cents" gorm:"not null"`
	GatewayFeeCents int64 `json:"gateway_fee_cents" gorm:"not null"`
	TotalCents      int64 `json:"total_cents" gorm:"not null"`

	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'pending'"`
	ProofHash     string        `json:"proof_hash" gorm:"type:varchar(64);not null"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a line frozen from the catalog at placement time.
type OrderItem struct {
	ID             snowflake.ID  `json:"id" gorm:"primaryKey"`
	OrderID        snowflake.ID  `json:"-" gorm:"not null;index"`
	TenantID       snowflake.ID  `json:"-" gorm:"not null;index"`
	ProductID      snowflake.ID  `json:"product_id" gorm:"not null"`
	VariantID      *snowflake.ID `json:"variant_id,omitempty"`
	Label          string        `json:"label" gorm:"type:text;not null"`
	UnitPriceCents int64         `json:"unit_price_cents" gorm:"not null"`
	Qty            int64         `json:"qty" gorm:"not null"`
	TotalCents     int64         `json:"total_cents" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }
