package promotion

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType is how a promotion's value is applied.
type DiscountType string

const (
	TypePercentage   DiscountType = "PERCENTAGE"
	TypeFixedAmount  DiscountType = "FIXED_AMOUNT"
	TypeFreeShipping DiscountType = "FREE_SHIPPING"
)

// Promotion is a code-redeemable discount rule.
type Promotion struct {
	ID                    uuid.UUID    `json:"id"`
	Code                  string       `json:"code"`
	Description           string       `json:"description,omitempty"`
	DiscountType          DiscountType `json:"discount_type"`
	DiscountValue         int64        `json:"discount_value"`
	MinSpendCents         *int64       `json:"min_spend_cents,omitempty"`
	MaxUsageCount         *int         `json:"max_usage_count,omitempty"`
	UsedCount             int          `json:"used_count"`
	AppliesToProductID    *uuid.UUID   `json:"applies_to_product_id,omitempty"`
	AppliesToCollectionID *uuid.UUID   `json:"applies_to_collection_id,omitempty"`
	CustomerEmail         string       `json:"customer_email,omitempty"`
	StartsAt              *time.Time   `json:"starts_at,omitempty"`
	EndsAt                *time.Time   `json:"ends_at,omitempty"`
	Active                bool         `json:"active"`
	CreatedAt             time.Time    `json:"created_at"`
}

// Input is the create/update payload for a promotion.
type Input struct {
	Code                  string     `json:"code"`
	Description           string     `json:"description"`
	DiscountType          string     `json:"discount_type"`
	DiscountValue         *int64     `json:"discount_value"`
	MinSpendCents         *int64     `json:"min_spend_cents"`
	MaxUsageCount         *int       `json:"max_usage_count"`
	AppliesToProductID    *string    `json:"applies_to_product_id"`
	AppliesToCollectionID *string    `json:"applies_to_collection_id"`
	CustomerEmail         string     `json:"customer_email"`
	StartsAt              *time.Time `json:"starts_at"`
	EndsAt                *time.Time `json:"ends_at"`
	Active                *bool      `json:"active"`
}

// Performance is the per-code usage report derived from orders.
type Performance struct {
	PromoCode     string       `json:"promo_code"`
	UsageCount    int          `json:"usage_count"`
	TotalRevenue  int64        `json:"total_revenue"`
	TotalDiscount int64        `json:"total_discount"`
	PromoID       *uuid.UUID   `json:"promo_id,omitempty"`
	DiscountType  DiscountType `json:"discount_type,omitempty"`
	DiscountValue int64        `json:"discount_value,omitempty"`
	Active        bool         `json:"active"`
}
