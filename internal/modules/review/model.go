package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer product review. Reviews are hidden from the
// storefront until approved.
type Review struct {
	ID                  uuid.UUID  `json:"id"`
	ProductID           uuid.UUID  `json:"product_id"`
	CustomerID          *uuid.UUID `json:"customer_id,omitempty"`
	CustomerEmail       string     `json:"customer_email,omitempty"`
	CustomerName        string     `json:"customer_name"`
	Rating              int        `json:"rating"`
	Title               string     `json:"title,omitempty"`
	Body                string     `json:"body,omitempty"`
	Verified            bool       `json:"verified"`
	Approved            bool       `json:"approved"`
	IncentiveCouponCode string     `json:"incentive_coupon_code,omitempty"`
	OrderID             *uuid.UUID `json:"order_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// SubmitInput is the public review submission payload.
type SubmitInput struct {
	ProductID     string `json:"product_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	Rating        int    `json:"rating"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}

// Summary is the aggregate shown alongside a product's reviews.
type Summary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
