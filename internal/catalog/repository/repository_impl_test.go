package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))
	return Provide(), db
}

func TestApplyStockDeltaProduct(t *testing.T) {
	repo, db := setupRepo(t)

	product := &domain.Product{
		ID:         snowflake.ID(10),
		TenantID:   snowflake.ID(1),
		Slug:       "mug",
		Name:       "Mug",
		PriceCents: 900,
		TrackStock: true,
		StockQty:   5,
		Active:     true,
	}
	require.NoError(t, db.Create(product).Error)

	qty, err := repo.ApplyStockDelta(context.Background(), db, 1, 10, nil, -3)
	require.NoError(t, err)
	require.Equal(t, int64(2), qty)

	// Oversell drains to zero instead of going negative.
	qty, err = repo.ApplyStockDelta(context.Background(), db, 1, 10, nil, -10)
	require.NoError(t, err)
	require.Equal(t, int64(0), qty)

	qty, err = repo.ApplyStockDelta(context.Background(), db, 1, 10, nil, 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), qty)
}

func TestApplyStockDeltaVariant(t *testing.T) {
	repo, db := setupRepo(t)

	product := &domain.Product{
		ID:         snowflake.ID(10),
		TenantID:   snowflake.ID(1),
		Slug:       "shirt",
		Name:       "Shirt",
		PriceCents: 1900,
		StockQty:   7,
		Active:     true,
	}
	require.NoError(t, db.Create(product).Error)
	variant := &domain.Variant{
		ID:         snowflake.ID(20),
		ProductID:  snowflake.ID(10),
		TenantID:   snowflake.ID(1),
		Label:      "M",
		PriceCents: 1900,
		StockQty:   2,
	}
	require.NoError(t, db.Create(variant).Error)

	variantID := int64(20)
	qty, err := repo.ApplyStockDelta(context.Background(), db, 1, 10, &variantID, -5)
	require.NoError(t, err)
	require.Equal(t, int64(0), qty)

	// The product-level quantity stays untouched.
	var got domain.Product
	require.NoError(t, db.Where("id = ?", 10).First(&got).Error)
	require.Equal(t, int64(7), got.StockQty)
}

func TestApplyStockDeltaMissingRow(t *testing.T) {
	repo, db := setupRepo(t)

	_, err := repo.ApplyStockDelta(context.Background(), db, 1, 404, nil, -1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// The delta is folded into the stored value by the database, so a write
// based on a quantity read before someone else's update cannot win.
func TestApplyStockDeltaFoldsStoredValue(t *testing.T) {
	repo, db := setupRepo(t)

	product := &domain.Product{
		ID:         snowflake.ID(10),
		TenantID:   snowflake.ID(1),
		Slug:       "poster",
		Name:       "Poster",
		PriceCents: 1200,
		TrackStock: true,
		StockQty:   10,
		Active:     true,
	}
	require.NoError(t, db.Create(product).Error)

	// A concurrent sale lands between the caller deciding on its delta
	// and the update being applied.
	require.NoError(t, db.Model(&domain.Product{}).
		Where("id = ?", 10).
		Update("stock_qty", 6).Error)

	qty, err := repo.ApplyStockDelta(context.Background(), db, 1, 10, nil, -2)
	require.NoError(t, err)
	require.Equal(t, int64(4), qty)
}
