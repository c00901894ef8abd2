package promotion

import (
	"fmt"
	"strings"
	"time"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Cart carries the order-in-progress figures a promotion is checked against.
type Cart struct {
	SubtotalCents int64
	ShippingCents int64
	CustomerEmail string
}

// Result is the outcome of applying a promotion to a cart.
type Result struct {
	Promo         *Promotion
	DiscountCents int64
	FreeShipping  bool
}

// Evaluate checks a promotion against a cart at a point in time and
// computes the discount. It does not touch storage or increment usage.
func Evaluate(p *Promotion, cart Cart, now time.Time) (Result, error) {
	if p == nil {
		return Result{}, apperr.NotFoundf("promo code not found")
	}
	if !p.Active {
		return Result{}, apperr.Validationf("promo code is not active")
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return Result{}, apperr.Validationf("promo code is not active yet")
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return Result{}, apperr.Validationf("promo code has expired")
	}
	if p.MaxUsageCount != nil && p.UsedCount >= *p.MaxUsageCount {
		return Result{}, apperr.Validationf("promo code usage limit reached")
	}
	if p.MinSpendCents != nil && cart.SubtotalCents < *p.MinSpendCents {
		return Result{}, apperr.Validationf("order subtotal below promo minimum of %d cents", *p.MinSpendCents)
	}
	if p.CustomerEmail != "" && !strings.EqualFold(p.CustomerEmail, cart.CustomerEmail) {
		return Result{}, apperr.Validationf("promo code is not valid for this customer")
	}

	res := Result{Promo: p}
	switch p.DiscountType {
	case TypePercentage:
		res.DiscountCents = cart.SubtotalCents * p.DiscountValue / 100
	case TypeFixedAmount:
		res.DiscountCents = p.DiscountValue
		if res.DiscountCents > cart.SubtotalCents {
			res.DiscountCents = cart.SubtotalCents
		}
	case TypeFreeShipping:
		res.FreeShipping = true
	default:
		return Result{}, fmt.Errorf("unknown discount type %q", p.DiscountType)
	}
	return res, nil
}
