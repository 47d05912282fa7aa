package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Review is a product review gated on verified purchase: the submitting
// email must have at least one order containing the product.
type Review struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID      snowflake.ID `json:"tenant_id" gorm:"not null;index"`
	ProductID     snowflake.ID `json:"product_id" gorm:"not null;index"`
	CustomerName  string       `json:"customer_name" gorm:"type:text;not null"`
	CustomerEmail string       `json:"-" gorm:"type:text;not null"`
	Rating        int          `json:"rating" gorm:"not null"`
	Comment       string       `json:"comment" gorm:"type:text"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (Review) TableName() string { return "reviews" }
