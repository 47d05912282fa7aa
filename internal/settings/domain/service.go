package domain

import (
	"context"
	"errors"
)

type Service interface {
	UpsertShippingMethod(ctx context.Context, req ShippingMethodRequest) (*ShippingMethod, error)
	DeleteShippingMethod(ctx context.Context, code string) error
	ListShippingMethods(ctx context.Context, activeOnly bool) ([]ShippingMethod, error)
	GetShippingMethod(ctx context.Context, code string) (*ShippingMethod, error)

	UpsertPaymentMethod(ctx context.Context, req PaymentMethodRequest) (*PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, code string) error
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, code string) (*PaymentMethod, error)
}

type ShippingMethodRequest struct {
	Code                string   `json:"code"`
	Label               string   `json:"label"`
	BaseCents           int64    `json:"base_cents"`
	CODFeeCents         int64    `json:"cod_fee_cents"`
	AllowedPaymentCodes []string `json:"allowed_payment_codes"`
	Position            int      `json:"position"`
	Active              *bool    `json:"active"`
}

type PaymentMethodRequest struct {
	Code          string  `json:"code"`
	Label         string  `json:"label"`
	SurchargeRate float64 `json:"surcharge_rate"`
	Position      int     `json:"position"`
	Active        *bool   `json:"active"`
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidCode   = errors.New("invalid_code")
	ErrInvalidLabel  = errors.New("invalid_label")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidRate   = errors.New("invalid_rate")
	ErrNotFound      = errors.New("not_found")
)
