package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EarningStatus is the payout state of a single commission row.
type EarningStatus string

const (
	EarningPending EarningStatus = "pending"
	EarningPaid    EarningStatus = "paid"
)

// Account is a referral partner. EarnedCents is the running total of all
// accrued commissions; PaidCents tracks what has been settled.
type Account struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Code        string       `json:"code" gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Percent     float64      `json:"percent" gorm:"not null"`
	EarnedCents int64        `json:"earned_cents" gorm:"not null;default:0"`
	PaidCents   int64        `json:"paid_cents" gorm:"not null;default:0"`
	Active      bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Account) TableName() string { return "referral_accounts" }

// Earning is one commission accrual, written when a referred tenant's
// order is paid.
type Earning struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	AccountID   snowflake.ID  `json:"account_id" gorm:"not null;index"`
	TenantID    snowflake.ID  `json:"tenant_id" gorm:"not null;index"`
	OrderNumber string        `json:"order_number" gorm:"type:varchar(32);not null"`
	BaseCents   int64         `json:"base_cents" gorm:"not null"`
	AmountCents int64         `json:"amount_cents" gorm:"not null"`
	Status      EarningStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (Earning) TableName() string { return "referral_earnings" }
