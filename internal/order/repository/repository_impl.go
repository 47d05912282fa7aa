package repository

import (
	"context"
	"errors"

	"github.com/shopyard/shopyard/internal/order/domain"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repositoryImpl) Save(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *repositoryImpl) FindByNumber(ctx context.Context, db *gorm.DB, tenantID int64, number string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, tenantID int64, filter domain.ListFilter) ([]*domain.Order, error) {
	query := db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order("id DESC")
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.AfterID != 0 {
		query = query.Where("id < ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []*domain.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repositoryImpl) CountByEmail(ctx context.Context, db *gorm.DB, tenantID int64, email string, productID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.tenant_id = ? AND LOWER(orders.customer_email) = ? AND order_items.product_id = ?",
			tenantID, email, productID).
		Count(&count).Error
	return count, err
}
