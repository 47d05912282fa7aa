package domain

import (
	"context"
	"errors"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Review, error)
	ListForProduct(ctx context.Context, productID string) ([]Review, error)
}

type SubmitRequest struct {
	ProductID     string `json:"product_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

var (
	ErrInvalidTenant        = errors.New("invalid_tenant")
	ErrInvalidProduct       = errors.New("invalid_product")
	ErrInvalidRating        = errors.New("invalid_rating")
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrNotVerifiedPurchaser = errors.New("not_verified_purchaser")
)
