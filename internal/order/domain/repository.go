package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	PaymentStatus string
	AfterID       int64
	Limit         int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	Save(ctx context.Context, db *gorm.DB, order *Order) error
	FindByNumber(ctx context.Context, db *gorm.DB, tenantID int64, number string) (*Order, error)
	List(ctx context.Context, db *gorm.DB, tenantID int64, filter ListFilter) ([]*Order, error)

	// CountByEmail reports orders of a product by a customer, the
	// review-eligibility check.
	CountByEmail(ctx context.Context, db *gorm.DB, tenantID int64, email string, productID int64) (int64, error)
}
