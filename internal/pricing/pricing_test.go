package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
	"gorm.io/datatypes"
)

func shippingMethod(base, codFee int64, allowed string) *settingsdomain.ShippingMethod {
	m := &settingsdomain.ShippingMethod{
		Code:        "courier",
		BaseCents:   base,
		CODFeeCents: codFee,
		Active:      true,
	}
	if allowed != "" {
		m.AllowedPaymentCodes = datatypes.JSON([]byte(allowed))
	}
	return m
}

func paymentMethod(code string, rate float64) *settingsdomain.PaymentMethod {
	return &settingsdomain.PaymentMethod{Code: code, SurchargeRate: rate, Active: true}
}

func lines(prices ...int64) []catalogdomain.ResolvedLine {
	out := make([]catalogdomain.ResolvedLine, 0, len(prices))
	for _, p := range prices {
		out = append(out, catalogdomain.ResolvedLine{UnitPriceCents: p, Qty: 1})
	}
	return out
}

func TestComputeTotalsBreakdown(t *testing.T) {
	totals, err := ComputeTotals(
		[]catalogdomain.ResolvedLine{
			{UnitPriceCents: 1500, Qty: 2},
			{UnitPriceCents: 700, Qty: 1},
		},
		shippingMethod(500, 300, ""),
		paymentMethod("card", 0.025),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(3700), totals.SubtotalCents)
	assert.Equal(t, int64(500), totals.ShippingCents)
	assert.Equal(t, int64(0), totals.CODFeeCents)
	// 3700 * 2.5% = 92.5, rounds up to 93
	assert.Equal(t, int64(93), totals.GatewayFeeCents)
	assert.Equal(t, totals.SubtotalCents+totals.ShippingCents+totals.CODFeeCents+totals.GatewayFeeCents, totals.TotalCents)
}

func TestCODFeeOnlyForCOD(t *testing.T) {
	shipping := shippingMethod(400, 250, "")

	cod, err := ComputeTotals(lines(1000), shipping, paymentMethod("cod", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(250), cod.CODFeeCents)
	assert.Equal(t, int64(1650), cod.TotalCents)

	card, err := ComputeTotals(lines(1000), shipping, paymentMethod("card", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), card.CODFeeCents)
	assert.Equal(t, int64(1400), card.TotalCents)
}

func TestSurchargeRounding(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int64
		rate     float64
		want     int64
	}{
		{"exact", 10000, 0.029, 290},
		{"two percent", 10000, 0.02, 200},
		{"half rounds up", 1025, 0.02, 21},
		{"below half rounds down", 1024, 0.02, 20},
		{"tiny cart", 17, 0.029, 0},
		{"zero rate", 5000, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, surcharge(tc.subtotal, tc.rate))
		})
	}
}

func TestComputeTotalsValidation(t *testing.T) {
	shipping := shippingMethod(500, 0, "")
	payment := paymentMethod("card", 0)

	_, err := ComputeTotals(nil, shipping, payment)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = ComputeTotals(lines(100), nil, payment)
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)

	inactive := shippingMethod(500, 0, "")
	inactive.Active = false
	_, err = ComputeTotals(lines(100), inactive, payment)
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)

	_, err = ComputeTotals(lines(100), shipping, nil)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestAllowedPaymentCodes(t *testing.T) {
	restricted := shippingMethod(500, 0, `["card","bank"]`)

	_, err := ComputeTotals(lines(100), restricted, paymentMethod("cod", 0))
	assert.ErrorIs(t, err, ErrIncompatiblePaymentMethod)

	_, err = ComputeTotals(lines(100), restricted, paymentMethod("card", 0))
	assert.NoError(t, err)

	// empty list means no restriction
	open := shippingMethod(500, 0, `[]`)
	_, err = ComputeTotals(lines(100), open, paymentMethod("cod", 0))
	assert.NoError(t, err)

	// a corrupt list rejects every method rather than allowing all
	corrupt := shippingMethod(500, 0, `{"card"`)
	_, err = ComputeTotals(lines(100), corrupt, paymentMethod("card", 0))
	assert.ErrorIs(t, err, ErrIncompatiblePaymentMethod)
}
