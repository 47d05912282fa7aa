package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/settings/domain"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// UpsertShippingMethod creates or replaces the method keyed by code, so
// admin config stays declarative.
func (s *Service) UpsertShippingMethod(ctx context.Context, req domain.ShippingMethodRequest) (*domain.ShippingMethod, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	code := normalizeCode(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.ErrInvalidLabel
	}
	if req.BaseCents < 0 || req.CODFeeCents < 0 {
		return nil, domain.ErrInvalidAmount
	}

	allowed := make([]string, 0, len(req.AllowedPaymentCodes))
	for _, c := range req.AllowedPaymentCodes {
		if c = normalizeCode(c); c != "" {
			allowed = append(allowed, c)
		}
	}
	allowedJSON, err := json.Marshal(allowed)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	method, err := s.repo.FindShippingMethod(ctx, s.db, tenantID.Int64(), code)
	if err != nil {
		return nil, err
	}
	if method == nil {
		method = &domain.ShippingMethod{
			ID:        s.genID.Generate(),
			TenantID:  tenantID,
			Code:      code,
			Active:    true,
			CreatedAt: now,
		}
	}

	method.Label = label
	method.BaseCents = req.BaseCents
	method.CODFeeCents = req.CODFeeCents
	method.AllowedPaymentCodes = datatypes.JSON(allowedJSON)
	method.Position = req.Position
	if req.Active != nil {
		method.Active = *req.Active
	}
	method.UpdatedAt = now

	if err := s.repo.SaveShippingMethod(ctx, s.db, method); err != nil {
		return nil, err
	}

	s.log.Info("shipping method saved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", code),
	)
	return method, nil
}

func (s *Service) DeleteShippingMethod(ctx context.Context, code string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}
	code = normalizeCode(code)
	if code == "" {
		return domain.ErrInvalidCode
	}
	return s.repo.DeleteShippingMethod(ctx, s.db, tenantID.Int64(), code)
}

func (s *Service) ListShippingMethods(ctx context.Context, activeOnly bool) ([]domain.ShippingMethod, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.ListShippingMethods(ctx, s.db, tenantID.Int64(), activeOnly)
}

func (s *Service) GetShippingMethod(ctx context.Context, code string) (*domain.ShippingMethod, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	method, err := s.repo.FindShippingMethod(ctx, s.db, tenantID.Int64(), normalizeCode(code))
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, domain.ErrNotFound
	}
	return method, nil
}

func (s *Service) UpsertPaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) (*domain.PaymentMethod, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	code := normalizeCode(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.ErrInvalidLabel
	}
	// The rate is a fraction of the subtotal; anything past 1 would mean
	// a surcharge larger than the purchase itself.
	if req.SurchargeRate < 0 || req.SurchargeRate > 1 {
		return nil, domain.ErrInvalidRate
	}

	now := s.clock.Now()
	method, err := s.repo.FindPaymentMethod(ctx, s.db, tenantID.Int64(), code)
	if err != nil {
		return nil, err
	}
	if method == nil {
		method = &domain.PaymentMethod{
			ID:        s.genID.Generate(),
			TenantID:  tenantID,
			Code:      code,
			Active:    true,
			CreatedAt: now,
		}
	}

	method.Label = label
	method.SurchargeRate = req.SurchargeRate
	method.Position = req.Position
	if req.Active != nil {
		method.Active = *req.Active
	}
	method.UpdatedAt = now

	if err := s.repo.SavePaymentMethod(ctx, s.db, method); err != nil {
		return nil, err
	}

	s.log.Info("payment method saved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", code),
	)
	return method, nil
}

func (s *Service) DeletePaymentMethod(ctx context.Context, code string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}
	code = normalizeCode(code)
	if code == "" {
		return domain.ErrInvalidCode
	}
	return s.repo.DeletePaymentMethod(ctx, s.db, tenantID.Int64(), code)
}

func (s *Service) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.ListPaymentMethods(ctx, s.db, tenantID.Int64(), activeOnly)
}

func (s *Service) GetPaymentMethod(ctx context.Context, code string) (*domain.PaymentMethod, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	method, err := s.repo.FindPaymentMethod(ctx, s.db, tenantID.Int64(), normalizeCode(code))
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, domain.ErrNotFound
	}
	return method, nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
