package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	analyticsdomain "github.com/shopyard/shopyard/internal/analytics/domain"
	analyticsservice "github.com/shopyard/shopyard/internal/analytics/service"
	"github.com/shopyard/shopyard/internal/attestation"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	catalogrepository "github.com/shopyard/shopyard/internal/catalog/repository"
	catalogservice "github.com/shopyard/shopyard/internal/catalog/service"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/events"
	"github.com/shopyard/shopyard/internal/migration"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	orderrepository "github.com/shopyard/shopyard/internal/order/repository"
	"github.com/shopyard/shopyard/internal/pricing"
	"github.com/shopyard/shopyard/internal/providers/email"
	"github.com/shopyard/shopyard/internal/providers/webhook"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
	settingsrepository "github.com/shopyard/shopyard/internal/settings/repository"
	settingsservice "github.com/shopyard/shopyard/internal/settings/service"
	stockdomain "github.com/shopyard/shopyard/internal/stockledger/domain"
	stockrepository "github.com/shopyard/shopyard/internal/stockledger/repository"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	tenantrepository "github.com/shopyard/shopyard/internal/tenant/repository"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderFixture struct {
	svc      orderdomain.Service
	catalog  catalogdomain.Service
	db       *gorm.DB
	tenantID snowflake.ID
	ctx      context.Context
}

func setupOrderService(t *testing.T) *orderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	tenantID := node.Generate()
	require.NoError(t, db.Create(&tenantdomain.Tenant{
		ID:                tenantID,
		Slug:              "test-store",
		Name:              "Test Store",
		Domain:            "test.example.com",
		SupportTier:       tenantdomain.TierBasic,
		AdminPasswordHash: "x",
		Active:            true,
		Currency:          "USD",
		CreatedAt:         fake.Now(),
		UpdatedAt:         fake.Now(),
	}).Error)

	stockRepo := stockrepository.Provide()
	catalogRepo := catalogrepository.Provide()
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  catalogRepo,
		Stock: stockRepo,
	})
	settingsSvc := settingsservice.New(settingsservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  settingsrepository.Provide(),
	})
	analyticsSvc := analyticsservice.New(analyticsservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
	})

	svc := New(Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       fake,
		Repo:        orderrepository.Provide(),
		Catalog:     catalogSvc,
		CatalogRepo: catalogRepo,
		Settings:    settingsSvc,
		Stock:       stockRepo,
		Analytics:   analyticsSvc,
		Tenants:     tenantrepository.Provide(),
		Dispatcher:  events.NewDispatcher(fxtest.NewLifecycle(t), log),
		Attestation: attestation.NewClient(config.Config{}, log),
		Email:       email.New(config.Config{}, log),
		Webhooks:    webhook.NewSender(log),
		Metrics:     nil,
	})

	ctx := tenantctx.WithTenantID(context.Background(), tenantID.Int64())

	active := true
	_, err = settingsSvc.UpsertShippingMethod(ctx, settingsdomain.ShippingMethodRequest{
		Code:        "standard",
		Label:       "Standard",
		BaseCents:   500,
		CODFeeCents: 300,
		Active:      &active,
	})
	require.NoError(t, err)
	_, err = settingsSvc.UpsertPaymentMethod(ctx, settingsdomain.PaymentMethodRequest{
		Code:          "card",
		Label:         "Card",
		SurchargeRate: 0.029,
		Active:        &active,
	})
	require.NoError(t, err)
	_, err = settingsSvc.UpsertPaymentMethod(ctx, settingsdomain.PaymentMethodRequest{
		Code:   "cod",
		Label:  "Cash on delivery",
		Active: &active,
	})
	require.NoError(t, err)

	return &orderFixture{
		svc:      svc,
		catalog:  catalogSvc,
		db:       db,
		tenantID: tenantID,
		ctx:      ctx,
	}
}

func (f *orderFixture) createProduct(t *testing.T, name string, price int64, trackStock bool, qty int64) *catalogdomain.Product {
	t.Helper()
	product, err := f.catalog.CreateProduct(f.ctx, catalogdomain.CreateProductRequest{
		Name:       name,
		PriceCents: price,
		TrackStock: trackStock,
		StockQty:   qty,
	})
	require.NoError(t, err)
	return product
}

func (f *orderFixture) placeRequest(items ...orderdomain.CartItem) orderdomain.PlaceOrderRequest {
	return orderdomain.PlaceOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Address:       "12 Analytical Way",
		ShippingCode:  "standard",
		PaymentCode:   "card",
		Items:         items,
	}
}

func (f *orderFixture) stockQty(t *testing.T, productID snowflake.ID) int64 {
	t.Helper()
	var product catalogdomain.Product
	require.NoError(t, f.db.Where("id = ?", productID.Int64()).First(&product).Error)
	return product.StockQty
}

func TestPlaceOrderTotalsAndBookkeeping(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Mug", 1000, true, 3)

	order, err := f.svc.PlaceOrder(f.ctx, f.placeRequest(
		orderdomain.CartItem{ProductID: product.ID.String(), Qty: 2},
	))
	require.NoError(t, err)

	require.Equal(t, int64(2000), order.SubtotalCents)
	require.Equal(t, int64(500), order.ShippingCents)
	require.Equal(t, int64(0), order.CODFeeCents)
	require.Equal(t, int64(58), order.GatewayFeeCents) // round(2000 * 2.9%)
	require.Equal(t, int64(2558), order.TotalCents)
	require.Equal(t, orderdomain.PaymentPending, order.PaymentStatus)
	require.NotEmpty(t, order.Number)
	require.NotEmpty(t, order.ProofHash)
	require.Len(t, order.Items, 1)
	require.Equal(t, "Mug", order.Items[0].Label)

	require.Equal(t, int64(1), f.stockQty(t, product.ID))

	var entries []stockdomain.Entry
	require.NoError(t, f.db.Where("product_id = ?", product.ID.Int64()).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, int64(-2), entries[0].Delta)
	require.Equal(t, stockdomain.ReasonOrder, entries[0].Reason)
	require.NotNil(t, entries[0].OrderID)
	require.Equal(t, order.ID, *entries[0].OrderID)

	var stat analyticsdomain.DailyStat
	require.NoError(t, f.db.Where("tenant_id = ? AND day = ?", f.tenantID.Int64(), "2025-06-01").First(&stat).Error)
	require.Equal(t, int64(1), stat.OrderCount)
	require.Equal(t, order.TotalCents, stat.RevenueCents)
	require.Equal(t, int64(2), stat.ItemsSold)
}

func TestPlaceOrderClampsOversell(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Mug", 1000, true, 3)

	order, err := f.svc.PlaceOrder(f.ctx, f.placeRequest(
		orderdomain.CartItem{ProductID: product.ID.String(), Qty: 5},
	))
	require.NoError(t, err)
	require.Equal(t, int64(5000), order.SubtotalCents)

	// The order goes through and stock floors at zero; the ledger keeps
	// the full requested movement.
	require.Equal(t, int64(0), f.stockQty(t, product.ID))

	var entry stockdomain.Entry
	require.NoError(t, f.db.Where("product_id = ?", product.ID.Int64()).First(&entry).Error)
	require.Equal(t, int64(-5), entry.Delta)
}

func TestPlaceOrderRetriesCreateDuplicates(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Mug", 1000, true, 3)
	req := f.placeRequest(orderdomain.CartItem{ProductID: product.ID.String(), Qty: 2})

	first, err := f.svc.PlaceOrder(f.ctx, req)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(f.ctx, req)
	require.NoError(t, err)

	require.NotEqual(t, first.Number, second.Number)

	var count int64
	require.NoError(t, f.db.Model(&orderdomain.Order{}).Where("tenant_id = ?", f.tenantID.Int64()).Count(&count).Error)
	require.Equal(t, int64(2), count)

	// 3 - 2 - 2 floors at zero on the second decrement.
	require.Equal(t, int64(0), f.stockQty(t, product.ID))
}

func TestPlaceOrderDropsUnknownLines(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Mug", 1000, false, 0)

	order, err := f.svc.PlaceOrder(f.ctx, f.placeRequest(
		orderdomain.CartItem{ProductID: product.ID.String(), Qty: 1},
		orderdomain.CartItem{ProductID: "999999999", Qty: 4},
	))
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.Equal(t, int64(1000), order.SubtotalCents)

	_, err = f.svc.PlaceOrder(f.ctx, f.placeRequest(
		orderdomain.CartItem{ProductID: "999999999", Qty: 4},
	))
	require.ErrorIs(t, err, pricing.ErrEmptyCart)
}

func TestPlaceOrderCODFee(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Mug", 1000, false, 0)

	req := f.placeRequest(orderdomain.CartItem{ProductID: product.ID.String(), Qty: 1})
	req.PaymentCode = "cod"

	order, err := f.svc.PlaceOrder(f.ctx, req)
	require.NoError(t, err)
	require.Equal(t, int64(300), order.CODFeeCents)
	require.Equal(t, int64(0), order.GatewayFeeCents)
	require.Equal(t, int64(1800), order.TotalCents)
}

func TestPlaceOrderUntrackedSkipsLedger(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Download", 700, false, 0)

	_, err := f.svc.PlaceOrder(f.ctx, f.placeRequest(
		orderdomain.CartItem{ProductID: product.ID.String(), Qty: 2},
	))
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&stockdomain.Entry{}).Where("product_id = ?", product.ID.Int64()).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestMarkPaidIdempotent(t *testing.T) {
	f := setupOrderService(t)
	product := f.createProduct(t, "Mug", 1000, false, 0)

	order, err := f.svc.PlaceOrder(f.ctx, f.placeRequest(
		orderdomain.CartItem{ProductID: product.ID.String(), Qty: 1},
	))
	require.NoError(t, err)

	paid, changed, err := f.svc.MarkPaid(f.ctx, f.tenantID.Int64(), order.Number)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, orderdomain.PaymentPaid, paid.PaymentStatus)

	_, changed, err = f.svc.MarkPaid(f.ctx, f.tenantID.Int64(), order.Number)
	require.NoError(t, err)
	require.False(t, changed)

	_, _, err = f.svc.MarkPaid(f.ctx, f.tenantID.Int64(), "NO-SUCH-ORDER")
	require.ErrorIs(t, err, orderdomain.ErrNotFound)
}
