package repository

import (
	"context"

	"github.com/shopyard/shopyard/internal/stockledger/domain"
	"github.com/shopyard/shopyard/pkg/db/option"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Append(ctx context.Context, db *gorm.DB, entries ...*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(entries).Error
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, tenantID int64, req domain.ListRequest) ([]domain.Entry, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC")
	query = option.WithLimit(limit).Apply(query)
	if req.ProductID != 0 {
		query = query.Where("product_id = ?", req.ProductID)
	}

	var entries []domain.Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
