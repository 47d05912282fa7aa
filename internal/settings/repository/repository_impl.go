package repository

import (
	"context"
	"errors"

	"github.com/shopyard/shopyard/internal/settings/domain"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) SaveShippingMethod(ctx context.Context, db *gorm.DB, method *domain.ShippingMethod) error {
	return db.WithContext(ctx).Save(method).Error
}

func (r *repositoryImpl) DeleteShippingMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Delete(&domain.ShippingMethod{}).Error
}

func (r *repositoryImpl) FindShippingMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) (*domain.ShippingMethod, error) {
	var method domain.ShippingMethod
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *repositoryImpl) ListShippingMethods(ctx context.Context, db *gorm.DB, tenantID int64, activeOnly bool) ([]domain.ShippingMethod, error) {
	query := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("position ASC, code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var methods []domain.ShippingMethod
	if err := query.Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *repositoryImpl) SavePaymentMethod(ctx context.Context, db *gorm.DB, method *domain.PaymentMethod) error {
	return db.WithContext(ctx).Save(method).Error
}

func (r *repositoryImpl) DeletePaymentMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Delete(&domain.PaymentMethod{}).Error
}

func (r *repositoryImpl) FindPaymentMethod(ctx context.Context, db *gorm.DB, tenantID int64, code string) (*domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *repositoryImpl) ListPaymentMethods(ctx context.Context, db *gorm.DB, tenantID int64, activeOnly bool) ([]domain.PaymentMethod, error) {
	query := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("position ASC, code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var methods []domain.PaymentMethod
	if err := query.Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}
