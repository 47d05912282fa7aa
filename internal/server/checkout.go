package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
)

type checkoutResponse struct {
	Number          string `json:"number"`
	SubtotalCents   int64  `json:"subtotal_cents"`
	ShippingCents   int64  `json:"shipping_cents"`
	CODFeeCents     int64  `json:"cod_fee_cents"`
	GatewayFeeCents int64  `json:"gateway_fee_cents"`
	TotalCents      int64  `json:"total_cents"`
	PaymentStatus   string `json:"payment_status"`
}

func (s *Server) Checkout(c *gin.Context) {
	var req orderdomain.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	placed, err := s.orderSvc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		Number:          placed.Number,
		SubtotalCents:   placed.SubtotalCents,
		ShippingCents:   placed.ShippingCents,
		CODFeeCents:     placed.CODFeeCents,
		GatewayFeeCents: placed.GatewayFeeCents,
		TotalCents:      placed.TotalCents,
		PaymentStatus:   string(placed.PaymentStatus),
	})
}

// GetOrderStatus is the public order lookup. The order number alone is
// guessable in theory, so the customer email has to match too.
func (s *Server) GetOrderStatus(c *gin.Context) {
	ord, err := s.orderSvc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	// Stored emails are normalized at checkout, so the query side gets
	// the same treatment before comparing.
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" || email != ord.CustomerEmail {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"number":         ord.Number,
		"payment_status": ord.PaymentStatus,
		"total_cents":    ord.TotalCents,
		"created_at":     ord.CreatedAt,
		"items":          ord.Items,
	})
}
