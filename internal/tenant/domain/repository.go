package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Tenant, error)
	FindByDomain(ctx context.Context, db *gorm.DB, domain string) (*Tenant, error)
	FindFirstActive(ctx context.Context, db *gorm.DB) (*Tenant, error)
	FindFirst(ctx context.Context, db *gorm.DB) (*Tenant, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Tenant, error)
}
