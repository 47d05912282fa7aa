package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	SaveShippingMethod(ctx context.Context, db *gorm.DB, method *ShippingMethod) error
	DeleteShippingMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) error
	FindShippingMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) (*ShippingMethod, error)
	ListShippingMethods(ctx context.Context, db *gorm.DB, tenantID int64, activeOnly bool) ([]ShippingMethod, error)

	SavePaymentMethod(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) error
	FindPaymentMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) (*PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, db *gorm.DB, tenantID int64, activeOnly bool) ([]PaymentMethod, error)
}
