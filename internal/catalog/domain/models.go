package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a storefront catalog entry. Stock is tracked either on the
// product itself or per variant, never both: when variants exist they own
// pricing and stock and the product-level quantity is ignored.
type Product struct {
	ID                snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID          snowflake.ID  `json:"tenant_id" gorm:"not null;index:ux_products_tenant_slug,priority:1"`
	Slug              string        `json:"slug" gorm:"type:text;not null;index:ux_products_tenant_slug,priority:2"`
	Name              string        `json:"name" gorm:"type:text;not null"`
	Description       *string       `json:"description,omitempty" gorm:"type:text"`
	PriceCents        int64         `json:"price_cents" gorm:"not null"`
	CategoryID        *snowflake.ID `json:"category_id,omitempty" gorm:"index"`
	TrackStock        bool          `json:"track_stock" gorm:"not null;default:false"`
	StockQty          int64         `json:"stock_qty" gorm:"not null;default:0"`
	HasDigitalContent bool          `json:"has_digital_content" gorm:"not null;default:false"`
	Active            bool          `json:"active" gorm:"not null;default:true"`
	Variants          []Variant     `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt         time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// HasVariants reports whether stock and price live on variant rows.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// Variant is a purchasable variation of a product with its own price and
// stock quantity.
type Variant struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID  snowflake.ID `json:"product_id" gorm:"not null;index"`
	TenantID   snowflake.ID `json:"tenant_id" gorm:"not null;index"`
	Label      string       `json:"label" gorm:"type:text;not null"`
	PriceCents int64        `json:"price_cents" gorm:"not null"`
	StockQty   int64        `json:"stock_qty" gorm:"not null;default:0"`
	Position   int          `json:"position" gorm:"not null;default:0"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Variant) TableName() string { return "product_variants" }

// Category groups products for storefront navigation.
type Category struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID  snowflake.ID `json:"tenant_id" gorm:"not null;index:ux_categories_tenant_slug,priority:1"`
	Slug      string       `json:"slug" gorm:"type:text;not null;index:ux_categories_tenant_slug,priority:2"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Position  int          `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }

// ResolvedLine is the server-side view of a cart item: price and label
// re-read from the live catalog, never trusted from the client.
type ResolvedLine struct {
	ProductID      snowflake.ID
	VariantID      *snowflake.ID
	Label          string
	UnitPriceCents int64
	Qty            int64
	TrackStock     bool
}
