package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	SaveProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*Product, error)
	FindProductBySlug(ctx context.Context, db *gorm.DB, tenantID int64, slug string) (*Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, tenantID int64, filter ListProductsRequest) ([]Product, error)

	CreateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	SaveCategory(ctx context.Context, db *gorm.DB, category *Category) error
	DeleteCategory(ctx context.Context, db *gorm.DB, tenantID, id int64) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*Category, error)
	ListCategories(ctx context.Context, db *gorm.DB, tenantID int64) ([]Category, error)

	// ApplyStockDelta mutates the stored quantity clamped at zero and
	// returns the new quantity. Callers run it inside a transaction.
	ApplyStockDelta(ctx context.Context, db *gorm.DB, tenantID, productID int64, variantID *int64, delta int64) (int64, error)
}
