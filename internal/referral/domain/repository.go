package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateAccount(ctx context.Context, db *gorm.DB, account *Account) error
	SaveAccount(ctx context.Context, db *gorm.DB, account *Account) error
	FindAccountByCode(ctx context.Context, db *gorm.DB, code string) (*Account, error)
	ListAccounts(ctx context.Context, db *gorm.DB) ([]Account, error)

	CreateEarning(ctx context.Context, db *gorm.DB, earning *Earning) error
	ListEarnings(ctx context.Context, db *gorm.DB, accountID int64, status EarningStatus) ([]Earning, error)
	FindEarningsByIDs(ctx context.Context, db *gorm.DB, accountID int64, ids []int64) ([]Earning, error)
	SaveEarning(ctx context.Context, db *gorm.DB, earning *Earning) error
}
