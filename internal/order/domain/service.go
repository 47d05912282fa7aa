package domain

import (
	"context"
	"errors"

	"github.com/shopyard/shopyard/pkg/db/pagination"
)

type Service interface {
	// PlaceOrder resolves the cart against the live catalog, prices it,
	// and commits the order with its stock and analytics bookkeeping in
	// one transaction. Side effects run after commit and never fail the
	// order. Every call creates a new order; retries create duplicates.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// MarkPaid flips the order to paid. The second return reports
	// whether this call did the flip, so callers can make downstream
	// accruals idempotent.
	MarkPaid(ctx context.Context, tenantID int64, number string) (*Order, bool, error)

	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, req ListRequest) ([]*Order, *pagination.PageInfo, error)
}

type PlaceOrderRequest struct {
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	Address       string     `json:"address"`
	ShippingCode  string     `json:"shipping_code"`
	PaymentCode   string     `json:"payment_code"`
	Items         []CartItem `json:"items"`
}

// CartItem is the client-submitted line; only ids and quantity are
// trusted, price and label come from the catalog.
type CartItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Qty       int64  `json:"qty"`
}

type ListRequest struct {
	pagination.Pagination
	PaymentStatus string
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrNotFound        = errors.New("not_found")
)
