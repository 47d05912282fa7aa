package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reason classifies what caused a stock movement.
type Reason string

const (
	ReasonOrder  Reason = "order"
	ReasonManual Reason = "manual"
)

// Entry is an append-only stock movement record. Negative deltas are
// sales, positive deltas are restocks or corrections.
type Entry struct {
	ID        snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID  snowflake.ID  `json:"tenant_id" gorm:"not null;index"`
	ProductID snowflake.ID  `json:"product_id" gorm:"not null;index"`
	VariantID *snowflake.ID `json:"variant_id,omitempty"`
	Delta     int64         `json:"delta" gorm:"not null"`
	Reason    Reason        `json:"reason" gorm:"type:varchar(16);not null"`
	OrderID   *snowflake.ID `json:"order_id,omitempty" gorm:"index"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (Entry) TableName() string { return "stock_entries" }
