// Package pricing computes checkout totals from catalog-resolved lines
// and tenant shipping and payment configuration. All amounts are integer
// cents; the only rounding point is the gateway surcharge.
package pricing

import (
	"encoding/json"
	"errors"
	"math"

	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
)

var (
	ErrEmptyCart                 = errors.New("empty_cart")
	ErrInvalidShippingMethod     = errors.New("invalid_shipping_method")
	ErrInvalidPaymentMethod      = errors.New("invalid_payment_method")
	ErrIncompatiblePaymentMethod = errors.New("incompatible_payment_method")
)

// CODPaymentCode marks the payment method that triggers the shipping
// method's cash-on-delivery fee.
const CODPaymentCode = "cod"

// Totals is the full checkout amount breakdown.
type Totals struct {
	SubtotalCents   int64 `json:"subtotal_cents"`
	ShippingCents   int64 `json:"shipping_cents"`
	CODFeeCents     int64 `json:"cod_fee_cents"`
	GatewayFeeCents int64 `json:"gateway_fee_cents"`
	TotalCents      int64 `json:"total_cents"`
}

// ComputeTotals prices a resolved cart against a shipping and payment
// method. Lines must already be resolved against the live catalog; an
// empty slice (every requested item was unknown) is an empty cart.
func ComputeTotals(lines []catalogdomain.ResolvedLine, shipping *settingsdomain.ShippingMethod, payment *settingsdomain.PaymentMethod) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrEmptyCart
	}
	if shipping == nil || !shipping.Active {
		return Totals{}, ErrInvalidShippingMethod
	}
	if payment == nil || !payment.Active {
		return Totals{}, ErrInvalidPaymentMethod
	}
	if !paymentAllowed(shipping, payment.Code) {
		return Totals{}, ErrIncompatiblePaymentMethod
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPriceCents * line.Qty
	}

	totals := Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping.BaseCents,
	}
	if payment.Code == CODPaymentCode {
		totals.CODFeeCents = shipping.CODFeeCents
	}
	totals.GatewayFeeCents = surcharge(subtotal, payment.SurchargeRate)
	totals.TotalCents = totals.SubtotalCents + totals.ShippingCents + totals.CODFeeCents + totals.GatewayFeeCents
	return totals, nil
}

// surcharge applies the gateway rate, a fraction of the subtotal (0.029
// for a 2.9% fee), rounding half away from zero so a 0.5 cent fee
// becomes 1 cent.
func surcharge(subtotalCents int64, rate float64) int64 {
	if rate <= 0 || subtotalCents <= 0 {
		return 0
	}
	return int64(math.Round(float64(subtotalCents) * rate))
}

func paymentAllowed(shipping *settingsdomain.ShippingMethod, paymentCode string) bool {
	if len(shipping.AllowedPaymentCodes) == 0 {
		return true
	}
	// A restriction list that cannot be parsed restricts everything;
	// failing open would silently drop the tenant's allow-list.
	var allowed []string
	if err := json.Unmarshal(shipping.AllowedPaymentCodes, &allowed); err != nil {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, code := range allowed {
		if code == paymentCode {
			return true
		}
	}
	return false
}
