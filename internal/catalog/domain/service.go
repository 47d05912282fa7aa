package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, req ListProductsRequest) ([]Product, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)

	// AdjustStock applies a manual stock correction and writes a ledger row.
	AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockLevel, error)

	// ResolveLine re-reads price, label and stock mode for a cart item
	// from the live catalog. Unknown product or variant ids return
	// ErrLineNotFound so checkout can silently drop them.
	ResolveLine(ctx context.Context, tenantID snowflake.ID, productID, variantID string, qty int64) (*ResolvedLine, error)
}

type CreateProductRequest struct {
	Name              string                 `json:"name"`
	Description       *string                `json:"description"`
	PriceCents        int64                  `json:"price_cents"`
	CategoryID        *string                `json:"category_id"`
	TrackStock        bool                   `json:"track_stock"`
	StockQty          int64                  `json:"stock_qty"`
	HasDigitalContent bool                   `json:"has_digital_content"`
	Variants          []CreateVariantRequest `json:"variants"`
}

type CreateVariantRequest struct {
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
	StockQty   int64  `json:"stock_qty"`
}

type UpdateProductRequest struct {
	ID                string  `json:"-"`
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	PriceCents        *int64  `json:"price_cents"`
	CategoryID        *string `json:"category_id"`
	Active            *bool   `json:"active"`
	HasDigitalContent *bool   `json:"has_digital_content"`
}

type ListProductsRequest struct {
	CategoryID string
	ActiveOnly bool
	SortBy     string
	OrderBy    string
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type UpdateCategoryRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Delta     int64  `json:"delta"`
}

// StockLevel reports the quantity after an adjustment.
type StockLevel struct {
	ProductID snowflake.ID  `json:"product_id"`
	VariantID *snowflake.ID `json:"variant_id,omitempty"`
	StockQty  int64         `json:"stock_qty"`
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrNotFound        = errors.New("not_found")
	ErrLineNotFound    = errors.New("line_not_found")
	ErrStockNotTracked = errors.New("stock_not_tracked")
)
