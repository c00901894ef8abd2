package order

// Pricing is the computed money breakdown of a checkout.
type Pricing struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	DiscountCents int64 `json:"discount_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// PricingParams are the store-level inputs to a pricing computation.
type PricingParams struct {
	ShippingFlatCents          int64
	FreeShippingThresholdCents int64
	TaxRatePercent             int64
	DiscountCents              int64
	FreeShipping               bool
}

// ComputePricing derives the money breakdown for a cart subtotal.
// Discount is clamped to the subtotal, shipping is waived by promo or
// by meeting the free-shipping threshold, and tax applies to the
// discounted subtotal.
func ComputePricing(subtotalCents int64, p PricingParams) Pricing {
	discount := p.DiscountCents
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}

	shipping := p.ShippingFlatCents
	if p.FreeShipping {
		shipping = 0
	} else if p.FreeShippingThresholdCents > 0 && subtotalCents >= p.FreeShippingThresholdCents {
		shipping = 0
	}

	taxable := subtotalCents - discount
	tax := taxable * p.TaxRatePercent / 100

	return Pricing{
		SubtotalCents: subtotalCents,
		DiscountCents: discount,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    taxable + shipping + tax,
	}
}
