package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListRequest struct {
	ProductID int64
	Limit     int
}

type Repository interface {
	// Append writes ledger rows. It runs on whatever db handle the
	// caller passes so order placement can include it in its
	// transaction.
	Append(ctx context.Context, db *gorm.DB, entries ...*Entry) error
	List(ctx context.Context, db *gorm.DB, tenantID int64, req ListRequest) ([]Entry, error)
}
