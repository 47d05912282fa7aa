package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/internal/clock"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/internal/review/domain"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Catalog catalogdomain.Repository
	Orders  orderdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	catalog catalogdomain.Repository
	orders  orderdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("review.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		catalog: p.Catalog,
		orders:  p.Orders,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Review, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	product, err := s.catalog.FindProductByID(ctx, s.db, tenantID.Int64(), productID.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrInvalidProduct
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	name := strings.TrimSpace(req.CustomerName)
	emailAddr := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if name == "" || !strings.Contains(emailAddr, "@") {
		return nil, domain.ErrInvalidCustomer
	}

	purchases, err := s.orders.CountByEmail(ctx, s.db, tenantID.Int64(), emailAddr, productID.Int64())
	if err != nil {
		return nil, err
	}
	if purchases == 0 {
		return nil, domain.ErrNotVerifiedPurchaser
	}

	review := &domain.Review{
		ID:            s.genID.Generate(),
		TenantID:      tenantID,
		ProductID:     productID,
		CustomerName:  name,
		CustomerEmail: emailAddr,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
		CreatedAt:     s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}

	s.log.Info("review submitted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("rating", req.Rating),
	)
	return review, nil
}

func (s *Service) ListForProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(productID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}

	var reviews []domain.Review
	err = s.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID.Int64(), parsed.Int64()).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
