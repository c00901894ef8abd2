package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

func activePromo(dt DiscountType, value int64) *Promotion {
	return &Promotion{Code: "TEST", DiscountType: dt, DiscountValue: value, Active: true}
}

func TestEvaluatePercentage(t *testing.T) {
	res, err := Evaluate(activePromo(TypePercentage, 10), Cart{SubtotalCents: 4500}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(450), res.DiscountCents)
	assert.False(t, res.FreeShipping)
}

func TestEvaluateFixedAmountClamped(t *testing.T) {
	res, err := Evaluate(activePromo(TypeFixedAmount, 500), Cart{SubtotalCents: 2000}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(500), res.DiscountCents)

	res, err = Evaluate(activePromo(TypeFixedAmount, 5000), Cart{SubtotalCents: 2000}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2000), res.DiscountCents)
}

func TestEvaluateFreeShipping(t *testing.T) {
	res, err := Evaluate(activePromo(TypeFreeShipping, 0), Cart{SubtotalCents: 1000, ShippingCents: 800}, time.Now())

	require.NoError(t, err)
	assert.True(t, res.FreeShipping)
	assert.Zero(t, res.DiscountCents)
}

func TestEvaluateInactive(t *testing.T) {
	p := activePromo(TypePercentage, 10)
	p.Active = false

	_, err := Evaluate(p, Cart{SubtotalCents: 1000}, time.Now())

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestEvaluateWindow(t *testing.T) {
	now := time.Now()
	p := activePromo(TypePercentage, 10)

	starts := now.Add(time.Hour)
	p.StartsAt = &starts
	_, err := Evaluate(p, Cart{SubtotalCents: 1000}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active yet")

	p.StartsAt = nil
	ends := now.Add(-time.Hour)
	p.EndsAt = &ends
	_, err = Evaluate(p, Cart{SubtotalCents: 1000}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestEvaluateUsageCap(t *testing.T) {
	p := activePromo(TypePercentage, 10)
	limit := 5
	p.MaxUsageCount = &limit
	p.UsedCount = 5

	_, err := Evaluate(p, Cart{SubtotalCents: 1000}, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage limit")
}

func TestEvaluateMinSpend(t *testing.T) {
	p := activePromo(TypeFixedAmount, 500)
	min := int64(3000)
	p.MinSpendCents = &min

	_, err := Evaluate(p, Cart{SubtotalCents: 2999}, time.Now())
	require.Error(t, err)

	res, err := Evaluate(p, Cart{SubtotalCents: 3000}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(500), res.DiscountCents)
}

func TestEvaluateCustomerRestriction(t *testing.T) {
	p := activePromo(TypePercentage, 10)
	p.CustomerEmail = "vip@example.com"

	_, err := Evaluate(p, Cart{SubtotalCents: 1000, CustomerEmail: "other@example.com"}, time.Now())
	require.Error(t, err)

	res, err := Evaluate(p, Cart{SubtotalCents: 1000, CustomerEmail: "VIP@Example.com"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.DiscountCents)
}

func TestEvaluateNilPromo(t *testing.T) {
	_, err := Evaluate(nil, Cart{SubtotalCents: 1000}, time.Now())

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
