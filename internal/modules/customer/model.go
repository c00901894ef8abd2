package customer

import (
	"time"

	"github.com/google/uuid"
)

// Segment is a customer cohort defined by a fixed rule over order
// history, used to target marketing campaigns.
type Segment string

const (
	SegmentVIP       Segment = "vip"        // lifetime spend >= $100
	SegmentFirstTime Segment = "first_time" // exactly one order
	SegmentInactive  Segment = "inactive"   // no order in 60 days, or never
	SegmentRepeat    Segment = "repeat"     // two or more orders
	SegmentAll       Segment = "all"
)

// VIPSpendThresholdCents is the lifetime spend that qualifies a
// customer as VIP.
const VIPSpendThresholdCents = 10000

// InactiveAfterDays is how long without an order makes a customer
// inactive.
const InactiveAfterDays = 60

// Segments lists every recognized segment.
var Segments = []Segment{SegmentVIP, SegmentFirstTime, SegmentInactive, SegmentRepeat, SegmentAll}

// Valid reports whether s is a recognized segment.
func (s Segment) Valid() bool {
	for _, known := range Segments {
		if s == known {
			return true
		}
	}
	return false
}

// Customer is an upsert-by-email aggregate. Lifetime totals are
// maintained incrementally at checkout, never recomputed; refunds and
// cancellations do not decrement them.
type Customer struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Address1        string     `json:"address1,omitempty"`
	Address2        string     `json:"address2,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	PostalCode      string     `json:"postal_code,omitempty"`
	Country         string     `json:"country"`
	Tags            string     `json:"tags,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	TotalOrderCount int        `json:"total_order_count"`
	TotalSpentCents int64      `json:"total_spent_cents"`
	LastOrderAt     *time.Time `json:"last_order_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OrderSummary is the slim order view embedded in the customer detail
// response.
type OrderSummary struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detail is a customer plus that email's order history.
type Detail struct {
	Customer
	Orders []*OrderSummary `json:"orders"`
}

// UpdateInput is the admin patch payload for a customer record.
type UpdateInput struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Address1   *string `json:"address1"`
	Address2   *string `json:"address2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
	Tags       *string `json:"tags"`
	Notes      *string `json:"notes"`
}
