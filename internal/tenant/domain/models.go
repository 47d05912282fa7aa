package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SupportTier is a named permission bundle for a tenant's operators.
type SupportTier string

const (
	TierBasic    SupportTier = "basic"
	TierStandard SupportTier = "standard"
	TierPremium  SupportTier = "premium"
)

// Valid reports whether the tier is one of the known bundles.
func (t SupportTier) Valid() bool {
	switch t {
	case TierBasic, TierStandard, TierPremium:
		return true
	default:
		return false
	}
}

// Tenant is one isolated storefront bound to a domain.
type Tenant struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	Slug              string       `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_tenants_slug"`
	Name              string       `json:"name" gorm:"type:text;not null"`
	Domain            string       `json:"domain" gorm:"type:text;not null;uniqueIndex:ux_tenants_domain"`
	SupportTier       SupportTier  `json:"support_tier" gorm:"type:text;not null;default:basic"`
	AdminPasswordHash string       `json:"-" gorm:"type:text;not null"`
	Active            bool         `json:"active" gorm:"not null;default:true"`
	Currency          string       `json:"currency" gorm:"type:text;not null;default:USD"`
	ReferralCode      *string      `json:"referral_code,omitempty" gorm:"type:text;index"`
	WebhookURL        *string      `json:"webhook_url,omitempty" gorm:"type:text"`
	WebhookSecret     *string      `json:"-" gorm:"type:text"`
	CreatedAt         time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tenant) TableName() string { return "tenants" }
