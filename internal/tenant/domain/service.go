package domain

import (
	"context"
	"errors"
)

// Service is the tenant registry: host resolution plus root provisioning.
type Service interface {
	// ResolveByHost maps a request Host header to a tenant. The fallback
	// chain is: exact domain match, configured default tenant, any active
	// tenant, first tenant in creation order. An empty registry yields
	// ErrNoTenants.
	ResolveByHost(ctx context.Context, host string) (*Tenant, error)

	Create(ctx context.Context, req CreateRequest) (*Tenant, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Tenant, error)
	ResetPassword(ctx context.Context, id string, newPassword string) error
	Get(ctx context.Context, id string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)

	// VerifyAdminPassword checks the per-tenant admin password.
	VerifyAdminPassword(ctx context.Context, tenantID string, password string) (*Tenant, error)
}

type CreateRequest struct {
	Name          string  `json:"name"`
	Domain        string  `json:"domain"`
	SupportTier   string  `json:"support_tier"`
	AdminPassword string  `json:"admin_password"`
	Currency      string  `json:"currency"`
	ReferralCode  *string `json:"referral_code"`
}

type UpdateRequest struct {
	Name          *string `json:"name"`
	Domain        *string `json:"domain"`
	SupportTier   *string `json:"support_tier"`
	Active        *bool   `json:"active"`
	Currency      *string `json:"currency"`
	ReferralCode  *string `json:"referral_code"`
	WebhookURL    *string `json:"webhook_url"`
	WebhookSecret *string `json:"webhook_secret"`
}

var (
	ErrNoTenants       = errors.New("no_tenants")
	ErrNotFound        = errors.New("tenant_not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidDomain   = errors.New("invalid_domain")
	ErrDomainTaken     = errors.New("domain_taken")
	ErrInvalidTier     = errors.New("invalid_support_tier")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrWrongPassword   = errors.New("wrong_password")
)
