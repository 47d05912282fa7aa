package repository

import (
	"context"
	"errors"

	"github.com/shopyard/shopyard/internal/referral/domain"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CreateAccount(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Create(account).Error
}

func (r *repositoryImpl) SaveAccount(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Save(account).Error
}

func (r *repositoryImpl) FindAccountByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).Where("code = ?", code).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repositoryImpl) ListAccounts(ctx context.Context, db *gorm.DB) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repositoryImpl) CreateEarning(ctx context.Context, db *gorm.DB, earning *domain.Earning) error {
	return db.WithContext(ctx).Create(earning).Error
}

func (r *repositoryImpl) ListEarnings(ctx context.Context, db *gorm.DB, accountID int64, status domain.EarningStatus) ([]domain.Earning, error) {
	query := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var earnings []domain.Earning
	if err := query.Find(&earnings).Error; err != nil {
		return nil, err
	}
	return earnings, nil
}

func (r *repositoryImpl) FindEarningsByIDs(ctx context.Context, db *gorm.DB, accountID int64, ids []int64) ([]domain.Earning, error) {
	var earnings []domain.Earning
	err := db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Find(&earnings).Error
	if err != nil {
		return nil, err
	}
	return earnings, nil
}

func (r *repositoryImpl) SaveEarning(ctx context.Context, db *gorm.DB, earning *domain.Earning) error {
	return db.WithContext(ctx).Save(earning).Error
}
