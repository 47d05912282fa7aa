package domain

import (
	"context"
	"errors"
)

type Service interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error)
	GetAccount(ctx context.Context, code string) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)

	// Accrue records a commission for the referrer of tenantID, if any.
	// A tenant without a referral code, or a code pointing at a missing
	// or inactive account, accrues nothing and returns nil.
	Accrue(ctx context.Context, tenantID int64, orderNumber string, baseCents int64) (*Earning, error)

	ListEarnings(ctx context.Context, code string, status EarningStatus) ([]Earning, error)

	// MarkPaid settles the given earnings. Rows already paid are
	// skipped so repeated payout runs cannot double-count.
	MarkPaid(ctx context.Context, code string, earningIDs []string) (int64, error)
}

type CreateAccountRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

var (
	ErrInvalidCode    = errors.New("invalid_code")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPercent = errors.New("invalid_percent")
	ErrCodeTaken      = errors.New("code_taken")
	ErrNotFound       = errors.New("not_found")
)
