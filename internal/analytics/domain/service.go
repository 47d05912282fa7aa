package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DayFormat is the bucket key layout, the tenant-local calendar date.
const DayFormat = "2006-01-02"

type Service interface {
	// RecordOrder bumps the rollup for the order's day. It runs on the
	// caller's transaction handle so the rollup commits with the order.
	RecordOrder(ctx context.Context, db *gorm.DB, tenantID int64, placedAt time.Time, totalCents, itemCount int64) error

	Range(ctx context.Context, req RangeRequest) ([]DailyStat, error)
}

type RangeRequest struct {
	From string
	To   string
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidRange  = errors.New("invalid_range")
)
