package repository

import (
	"context"
	"errors"

	"github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/pkg/db/option"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CreateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repositoryImpl) SaveProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Omit("Variants").Save(product).Error
}

func (r *repositoryImpl) FindProductByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repositoryImpl) FindProductBySlug(ctx context.Context, db *gorm.DB, tenantID int64, slug string) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

var productSortColumns = map[string]bool{
	"created_at":  true,
	"name":        true,
	"price_cents": true,
}

func (r *repositoryImpl) ListProducts(ctx context.Context, db *gorm.DB, tenantID int64, filter domain.ListProductsRequest) ([]domain.Product, error) {
	query := db.WithContext(ctx).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("tenant_id = ?", tenantID)
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	query = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, productSortColumns)).Apply(query)

	var products []domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repositoryImpl) CreateCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repositoryImpl) SaveCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repositoryImpl) DeleteCategory(ctx context.Context, db *gorm.DB, tenantID, id int64) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Category{}).Error
}

func (r *repositoryImpl) FindCategoryByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repositoryImpl) ListCategories(ctx context.Context, db *gorm.DB, tenantID int64) ([]domain.Category, error) {
	var categories []domain.Category
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("position ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// ApplyStockDelta folds the delta into the stored quantity in a single
// UPDATE so concurrent sales cannot lose a decrement to a stale read.
// Oversell is absorbed, not rejected: a sale larger than the remaining
// quantity drains the row to zero.
func (r *repositoryImpl) ApplyStockDelta(ctx context.Context, db *gorm.DB, tenantID, productID int64, variantID *int64, delta int64) (int64, error) {
	clamped := gorm.Expr(
		"CASE WHEN stock_qty + ? < 0 THEN 0 ELSE stock_qty + ? END", delta, delta)

	if variantID != nil {
		err := db.WithContext(ctx).Model(&domain.Variant{}).
			Where("tenant_id = ? AND product_id = ? AND id = ?", tenantID, productID, *variantID).
			Update("stock_qty", clamped).Error
		if err != nil {
			return 0, err
		}
		var variant domain.Variant
		err = db.WithContext(ctx).
			Where("tenant_id = ? AND product_id = ? AND id = ?", tenantID, productID, *variantID).
			First(&variant).Error
		if err != nil {
			return 0, err
		}
		return variant.StockQty, nil
	}

	err := db.WithContext(ctx).Model(&domain.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Update("stock_qty", clamped).Error
	if err != nil {
		return 0, err
	}
	var product domain.Product
	err = db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		First(&product).Error
	if err != nil {
		return 0, err
	}
	return product.StockQty, nil
}
