package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/internal/catalog/repository"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/migration"
	stockdomain "github.com/shopyard/shopyard/internal/stockledger/domain"
	stockrepository "github.com/shopyard/shopyard/internal/stockledger/repository"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type catalogFixture struct {
	svc      domain.Service
	db       *gorm.DB
	tenantID snowflake.ID
	ctx      context.Context
}

func setupCatalogService(t *testing.T) *catalogFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
		Stock: stockrepository.Provide(),
	})

	tenantID := node.Generate()
	return &catalogFixture{
		svc:      svc,
		db:       db,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID.Int64()),
	}
}

func TestResolveLineSimpleProduct(t *testing.T) {
	f := setupCatalogService(t)
	product, err := f.svc.CreateProduct(f.ctx, domain.CreateProductRequest{
		Name:       "Plain Tee",
		PriceCents: 1500,
		TrackStock: true,
		StockQty:   10,
	})
	require.NoError(t, err)

	line, err := f.svc.ResolveLine(f.ctx, f.tenantID, product.ID.String(), "", 3)
	require.NoError(t, err)
	require.Equal(t, "Plain Tee", line.Label)
	require.Equal(t, int64(1500), line.UnitPriceCents)
	require.Equal(t, int64(3), line.Qty)
	require.True(t, line.TrackStock)
	require.Nil(t, line.VariantID)

	// A variant id against a product without variants is a stale line.
	_, err = f.svc.ResolveLine(f.ctx, f.tenantID, product.ID.String(), "12345", 1)
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestResolveLineVariantProduct(t *testing.T) {
	f := setupCatalogService(t)
	product, err := f.svc.CreateProduct(f.ctx, domain.CreateProductRequest{
		Name:       "Tee",
		PriceCents: 1500,
		Variants: []domain.CreateVariantRequest{
			{Label: "S", PriceCents: 1500, StockQty: 5},
			{Label: "XL", PriceCents: 1700, StockQty: 2},
		},
	})
	require.NoError(t, err)

	xl := product.Variants[1]
	line, err := f.svc.ResolveLine(f.ctx, f.tenantID, product.ID.String(), xl.ID.String(), 1)
	require.NoError(t, err)
	require.Equal(t, "Tee / XL", line.Label)
	require.Equal(t, int64(1700), line.UnitPriceCents)
	require.True(t, line.TrackStock)
	require.NotNil(t, line.VariantID)

	// Variant products require a variant choice.
	_, err = f.svc.ResolveLine(f.ctx, f.tenantID, product.ID.String(), "", 1)
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestResolveLineRejectsBadInput(t *testing.T) {
	f := setupCatalogService(t)
	product, err := f.svc.CreateProduct(f.ctx, domain.CreateProductRequest{
		Name:       "Tee",
		PriceCents: 1500,
	})
	require.NoError(t, err)

	_, err = f.svc.ResolveLine(f.ctx, f.tenantID, product.ID.String(), "", 0)
	require.ErrorIs(t, err, domain.ErrLineNotFound)

	_, err = f.svc.ResolveLine(f.ctx, f.tenantID, "not-a-snowflake", "", 1)
	require.ErrorIs(t, err, domain.ErrLineNotFound)

	inactive := false
	_, err = f.svc.UpdateProduct(f.ctx, domain.UpdateProductRequest{ID: product.ID.String(), Active: &inactive})
	require.NoError(t, err)
	_, err = f.svc.ResolveLine(f.ctx, f.tenantID, product.ID.String(), "", 1)
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestAdjustStockClampsAndLogs(t *testing.T) {
	f := setupCatalogService(t)
	product, err := f.svc.CreateProduct(f.ctx, domain.CreateProductRequest{
		Name:       "Mug",
		PriceCents: 900,
		TrackStock: true,
		StockQty:   4,
	})
	require.NoError(t, err)

	level, err := f.svc.AdjustStock(f.ctx, domain.AdjustStockRequest{
		ProductID: product.ID.String(),
		Delta:     -10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), level.StockQty)

	level, err = f.svc.AdjustStock(f.ctx, domain.AdjustStockRequest{
		ProductID: product.ID.String(),
		Delta:     7,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), level.StockQty)

	var entries []stockdomain.Entry
	require.NoError(t, f.db.Where("product_id = ?", product.ID.Int64()).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	require.Equal(t, int64(-10), entries[0].Delta)
	require.Equal(t, stockdomain.ReasonManual, entries[0].Reason)
	require.Nil(t, entries[0].OrderID)
}

func TestAdjustStockUntrackedProduct(t *testing.T) {
	f := setupCatalogService(t)
	product, err := f.svc.CreateProduct(f.ctx, domain.CreateProductRequest{
		Name:       "Download",
		PriceCents: 700,
	})
	require.NoError(t, err)

	_, err = f.svc.AdjustStock(f.ctx, domain.AdjustStockRequest{
		ProductID: product.ID.String(),
		Delta:     5,
	})
	require.ErrorIs(t, err, domain.ErrStockNotTracked)
}
