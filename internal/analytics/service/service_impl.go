package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/analytics/domain"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("analytics.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) RecordOrder(ctx context.Context, db *gorm.DB, tenantID int64, placedAt time.Time, totalCents, itemCount int64) error {
	stat := domain.DailyStat{
		ID:           s.genID.Generate(),
		TenantID:     snowflake.ID(tenantID),
		Day:          placedAt.UTC().Format(domain.DayFormat),
		OrderCount:   1,
		RevenueCents: totalCents,
		ItemsSold:    itemCount,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"order_count":   gorm.Expr("order_count + ?", 1),
			"revenue_cents": gorm.Expr("revenue_cents + ?", totalCents),
			"items_sold":    gorm.Expr("items_sold + ?", itemCount),
		}),
	}).Create(&stat).Error
}

func (s *Service) Range(ctx context.Context, req domain.RangeRequest) ([]domain.DailyStat, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	to := req.To
	if to == "" {
		to = s.clock.Now().UTC().Format(domain.DayFormat)
	}
	from := req.From
	if from == "" {
		t, _ := time.Parse(domain.DayFormat, to)
		from = t.AddDate(0, 0, -30).Format(domain.DayFormat)
	}
	if _, err := time.Parse(domain.DayFormat, from); err != nil {
		return nil, domain.ErrInvalidRange
	}
	if _, err := time.Parse(domain.DayFormat, to); err != nil {
		return nil, domain.ErrInvalidRange
	}
	if from > to {
		return nil, domain.ErrInvalidRange
	}

	var stats []domain.DailyStat
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND day >= ? AND day <= ?", tenantID.Int64(), from, to).
		Order("day ASC").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
