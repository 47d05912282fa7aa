package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ShippingMethod is a tenant-configured delivery option. AllowedPaymentCodes
// restricts which payment methods may be combined with it; an empty list
// allows all.
type ShippingMethod struct {
	ID                  snowflake.ID   `json:"id" gorm:"primaryKey"`
	TenantID            snowflake.ID   `json:"tenant_id" gorm:"not null;index:ux_shipping_tenant_code,priority:1"`
	Code                string         `json:"code" gorm:"type:varchar(64);not null;index:ux_shipping_tenant_code,priority:2"`
	Label               string         `json:"label" gorm:"type:text;not null"`
	BaseCents           int64          `json:"base_cents" gorm:"not null"`
	CODFeeCents         int64          `json:"cod_fee_cents" gorm:"not null;default:0"`
	AllowedPaymentCodes datatypes.JSON `json:"allowed_payment_codes" gorm:"type:jsonb"`
	Position            int            `json:"position" gorm:"not null;default:0"`
	Active              bool           `json:"active" gorm:"not null;default:true"`
	CreatedAt           time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ShippingMethod) TableName() string { return "shipping_methods" }

// PaymentMethod is a tenant-configured payment option. SurchargeRate is
// the gateway fee as a fraction of the subtotal, e.g. 0.029 for 2.9%.
type PaymentMethod struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID      snowflake.ID `json:"tenant_id" gorm:"not null;index:ux_payment_tenant_code,priority:1"`
	Code          string       `json:"code" gorm:"type:varchar(64);not null;index:ux_payment_tenant_code,priority:2"`
	Label         string       `json:"label" gorm:"type:text;not null"`
	SurchargeRate float64      `json:"surcharge_rate" gorm:"not null;default:0"`
	Position      int          `json:"position" gorm:"not null;default:0"`
	Active        bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }
