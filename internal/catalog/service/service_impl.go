package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/internal/clock"
	stockdomain "github.com/shopyard/shopyard/internal/stockledger/domain"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Stock stockdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	stock stockdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		stock: p.Stock,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.PriceCents < 0 {
		return nil, domain.ErrInvalidPrice
	}

	var categoryID *snowflake.ID
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) != "" {
		parsed, err := snowflake.ParseString(*req.CategoryID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		if cat, err := s.repo.FindCategoryByID(ctx, s.db, tenantID.Int64(), parsed.Int64()); err != nil {
			return nil, err
		} else if cat == nil {
			return nil, domain.ErrNotFound
		}
		categoryID = &parsed
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:                s.genID.Generate(),
		TenantID:          tenantID,
		Slug:              slug.Make(name),
		Name:              name,
		Description:       req.Description,
		PriceCents:        req.PriceCents,
		CategoryID:        categoryID,
		TrackStock:        req.TrackStock,
		StockQty:          clampZero(req.StockQty),
		HasDigitalContent: req.HasDigitalContent,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	for i, v := range req.Variants {
		label := strings.TrimSpace(v.Label)
		if label == "" {
			return nil, domain.ErrInvalidName
		}
		if v.PriceCents < 0 {
			return nil, domain.ErrInvalidPrice
		}
		product.Variants = append(product.Variants, domain.Variant{
			ID:         s.genID.Generate(),
			ProductID:  product.ID,
			TenantID:   tenantID,
			Label:      label,
			PriceCents: v.PriceCents,
			StockQty:   clampZero(v.StockQty),
			Position:   i,
			CreatedAt:  now,
		})
	}

	if err := s.repo.CreateProduct(ctx, s.db, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("variants", len(product.Variants)),
	)
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	product, err := s.findProduct(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
		product.Slug = slug.Make(name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, domain.ErrInvalidPrice
		}
		product.PriceCents = *req.PriceCents
	}
	if req.CategoryID != nil {
		if strings.TrimSpace(*req.CategoryID) == "" {
			product.CategoryID = nil
		} else {
			parsed, err := snowflake.ParseString(*req.CategoryID)
			if err != nil {
				return nil, domain.ErrInvalidID
			}
			if cat, err := s.repo.FindCategoryByID(ctx, s.db, tenantID.Int64(), parsed.Int64()); err != nil {
				return nil, err
			} else if cat == nil {
				return nil, domain.ErrNotFound
			}
			product.CategoryID = &parsed
		}
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.HasDigitalContent != nil {
		product.HasDigitalContent = *req.HasDigitalContent
	}

	product.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveProduct(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.findProduct(ctx, tenantID, id)
}

func (s *Service) GetProductBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	product, err := s.repo.FindProductBySlug(ctx, s.db, tenantID.Int64(), strings.TrimSpace(productSlug))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, req domain.ListProductsRequest) ([]domain.Product, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.ListProducts(ctx, s.db, tenantID.Int64(), req)
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Slug:      slug.Make(name),
		Name:      name,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, req domain.UpdateCategoryRequest) (*domain.Category, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, tenantID.Int64(), parsed.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		category.Name = name
		category.Slug = slug.Make(name)
	}
	if req.Position != nil {
		category.Position = *req.Position
	}

	category.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteCategory(ctx, s.db, tenantID.Int64(), parsed.Int64())
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.ListCategories(ctx, s.db, tenantID.Int64())
}

// AdjustStock applies a manual correction and records it in the ledger
// in one transaction so the ledger always sums to the stored quantity.
func (s *Service) AdjustStock(ctx context.Context, req domain.AdjustStockRequest) (*domain.StockLevel, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	product, err := s.findProduct(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	var variantID *snowflake.ID
	if strings.TrimSpace(req.VariantID) != "" {
		parsed, err := snowflake.ParseString(req.VariantID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		found := false
		for _, v := range product.Variants {
			if v.ID == parsed {
				found = true
				break
			}
		}
		if !found {
			return nil, domain.ErrNotFound
		}
		variantID = &parsed
	} else if product.HasVariants() {
		return nil, domain.ErrStockNotTracked
	} else if !product.TrackStock {
		return nil, domain.ErrStockNotTracked
	}

	level := &domain.StockLevel{ProductID: product.ID, VariantID: variantID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variantInt *int64
		if variantID != nil {
			v := variantID.Int64()
			variantInt = &v
		}
		next, err := s.repo.ApplyStockDelta(ctx, tx, tenantID.Int64(), product.ID.Int64(), variantInt, req.Delta)
		if err != nil {
			return err
		}
		level.StockQty = next

		return s.stock.Append(ctx, tx, &stockdomain.Entry{
			ID:        s.genID.Generate(),
			TenantID:  tenantID,
			ProductID: product.ID,
			VariantID: variantID,
			Delta:     req.Delta,
			Reason:    stockdomain.ReasonManual,
			CreatedAt: s.clock.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int64("delta", req.Delta),
		zap.Int64("stock_qty", level.StockQty),
	)
	return level, nil
}

func (s *Service) ResolveLine(ctx context.Context, tenantID snowflake.ID, productID, variantID string, qty int64) (*domain.ResolvedLine, error) {
	if qty <= 0 {
		return nil, domain.ErrLineNotFound
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(productID))
	if err != nil {
		return nil, domain.ErrLineNotFound
	}
	product, err := s.repo.FindProductByID(ctx, s.db, tenantID.Int64(), parsed.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrLineNotFound
	}

	if product.HasVariants() {
		vid, err := snowflake.ParseString(strings.TrimSpace(variantID))
		if err != nil {
			return nil, domain.ErrLineNotFound
		}
		for _, v := range product.Variants {
			if v.ID == vid {
				return &domain.ResolvedLine{
					ProductID:      product.ID,
					VariantID:      &v.ID,
					Label:          product.Name + " / " + v.Label,
					UnitPriceCents: v.PriceCents,
					Qty:            qty,
					TrackStock:     true,
				}, nil
			}
		}
		return nil, domain.ErrLineNotFound
	}

	if strings.TrimSpace(variantID) != "" {
		return nil, domain.ErrLineNotFound
	}
	return &domain.ResolvedLine{
		ProductID:      product.ID,
		Label:          product.Name,
		UnitPriceCents: product.PriceCents,
		Qty:            qty,
		TrackStock:     product.TrackStock,
	}, nil
}

func (s *Service) findProduct(ctx context.Context, tenantID snowflake.ID, id string) (*domain.Product, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	product, err := s.repo.FindProductByID(ctx, s.db, tenantID.Int64(), parsed.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
