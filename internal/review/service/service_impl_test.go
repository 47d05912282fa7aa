package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	catalogrepository "github.com/shopyard/shopyard/internal/catalog/repository"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/migration"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	orderrepository "github.com/shopyard/shopyard/internal/order/repository"
	"github.com/shopyard/shopyard/internal/review/domain"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reviewFixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func setupReviewService(t *testing.T) *reviewFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Catalog: catalogrepository.Provide(),
		Orders:  orderrepository.Provide(),
	})

	tenantID := node.Generate()
	return &reviewFixture{
		svc:      svc,
		db:       db,
		node:     node,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID.Int64()),
	}
}

func (f *reviewFixture) seedProduct(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:         id,
		TenantID:   f.tenantID,
		Slug:       "mug",
		Name:       "Mug",
		PriceCents: 900,
		Active:     true,
	}).Error)
	return id
}

func (f *reviewFixture) seedPurchase(t *testing.T, productID snowflake.ID, email string) {
	t.Helper()
	orderID := f.node.Generate()
	require.NoError(t, f.db.Create(&orderdomain.Order{
		ID:            orderID,
		TenantID:      f.tenantID,
		Number:        "ORD-" + orderID.String(),
		CustomerName:  "Ada",
		CustomerEmail: email,
		Address:       "12 Analytical Way",
		ShippingCode:  "standard",
		PaymentCode:   "card",
		SubtotalCents: 900,
		TotalCents:    1400,
		PaymentStatus: orderdomain.PaymentPending,
	}).Error)
	require.NoError(t, f.db.Create(&orderdomain.OrderItem{
		ID:             f.node.Generate(),
		OrderID:        orderID,
		TenantID:       f.tenantID,
		ProductID:      productID,
		Label:          "Mug",
		UnitPriceCents: 900,
		Qty:            1,
		TotalCents:     900,
	}).Error)
}

func TestSubmitRequiresPurchase(t *testing.T) {
	f := setupReviewService(t)
	productID := f.seedProduct(t)

	_, err := f.svc.Submit(f.ctx, domain.SubmitRequest{
		ProductID:     productID.String(),
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Rating:        5,
		Comment:       "Nice mug",
	})
	require.ErrorIs(t, err, domain.ErrNotVerifiedPurchaser)

	f.seedPurchase(t, productID, "ada@example.com")

	review, err := f.svc.Submit(f.ctx, domain.SubmitRequest{
		ProductID:     productID.String(),
		CustomerName:  "Ada",
		CustomerEmail: "ADA@example.com",
		Rating:        5,
		Comment:       "Nice mug",
	})
	require.NoError(t, err)
	require.Equal(t, 5, review.Rating)
	require.Equal(t, "ada@example.com", review.CustomerEmail)
}

func TestSubmitValidation(t *testing.T) {
	f := setupReviewService(t)
	productID := f.seedProduct(t)
	f.seedPurchase(t, productID, "ada@example.com")

	_, err := f.svc.Submit(f.ctx, domain.SubmitRequest{
		ProductID:     productID.String(),
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Rating:        6,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = f.svc.Submit(f.ctx, domain.SubmitRequest{
		ProductID:     productID.String(),
		CustomerName:  "",
		CustomerEmail: "ada@example.com",
		Rating:        4,
	})
	require.ErrorIs(t, err, domain.ErrInvalidCustomer)

	_, err = f.svc.Submit(f.ctx, domain.SubmitRequest{
		ProductID:     "424242",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Rating:        4,
	})
	require.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestListForProduct(t *testing.T) {
	f := setupReviewService(t)
	productID := f.seedProduct(t)
	f.seedPurchase(t, productID, "ada@example.com")

	_, err := f.svc.Submit(f.ctx, domain.SubmitRequest{
		ProductID:     productID.String(),
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Rating:        4,
		Comment:       "Solid",
	})
	require.NoError(t, err)

	reviews, err := f.svc.ListForProduct(f.ctx, productID.String())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "Solid", reviews[0].Comment)
}
