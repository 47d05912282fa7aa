// Package authorization maps tenant support tiers onto admin
// capabilities. Policies are enforced with casbin so tier grants live in
// one place instead of scattered handler checks.
package authorization

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCatalog   = "catalog"
	ObjectStock     = "stock"
	ObjectOrders    = "orders"
	ObjectSettings  = "settings"
	ObjectWebhooks  = "webhooks"
	ObjectAnalytics = "analytics"
	ObjectReceipts  = "receipts"
)

const (
	ActionView   = "view"
	ActionManage = "manage"
)

var (
	ErrInvalidTier = errors.New("invalid_tier")
	ErrForbidden   = errors.New("forbidden")
)

type Service interface {
	// Authorize checks whether the tenant's support tier grants the
	// action on the object.
	Authorize(ctx context.Context, tier tenantdomain.SupportTier, object, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, tier tenantdomain.SupportTier, object, action string) error {
	if !tier.Valid() {
		return ErrInvalidTier
	}
	object = strings.TrimSpace(object)
	action = strings.TrimSpace(action)
	if object == "" || action == "" {
		return ErrForbidden
	}

	allowed, err := s.enforcer.Enforce(subject(tier), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("tier", string(tier)),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func subject(tier tenantdomain.SupportTier) string {
	return "tier:" + string(tier)
}

// seedPolicies grants each tier its capabilities. Higher tiers inherit
// lower ones through grouping rules.
func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{"tier:basic", ObjectCatalog, ActionView},
		{"tier:basic", ObjectCatalog, ActionManage},
		{"tier:basic", ObjectStock, ActionManage},
		{"tier:basic", ObjectOrders, ActionView},
		{"tier:basic", ObjectOrders, ActionManage},

		{"tier:standard", ObjectSettings, ActionManage},

		{"tier:premium", ObjectWebhooks, ActionManage},
		{"tier:premium", ObjectAnalytics, ActionView},
		{"tier:premium", ObjectReceipts, ActionView},
	}
	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{"tier:standard", "tier:basic"},
		{"tier:premium", "tier:standard"},
	}
	for _, grouping := range groupings {
		if _, err := enforcer.AddGroupingPolicy(grouping); err != nil {
			return err
		}
	}
	return nil
}

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
