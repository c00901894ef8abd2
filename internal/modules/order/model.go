package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusFulfilled Status = "FULFILLED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// validTransitions defines the forward-flow edges of the status state
// machine. CANCELLED and REFUNDED are additionally reachable from any
// non-terminal state; terminal states have no outgoing edges.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid},
	StatusPaid:      {StatusFulfilled, StatusShipped},
	StatusFulfilled: {StatusShipped},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
	StatusRefunded:  {},
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

func (s Status) CanTransitionTo(next Status) bool {
	if next.Terminal() {
		return !s.Terminal()
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Order is a placed order with frozen pricing and item snapshots.
type Order struct {
	ID             uuid.UUID  `json:"id"`
	Status         Status     `json:"status"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Address1       string     `json:"address1"`
	Address2       string     `json:"address2,omitempty"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	PostalCode     string     `json:"postal_code"`
	Country        string     `json:"country"`
	SubtotalCents  int64      `json:"subtotal_cents"`
	ShippingCents  int64      `json:"shipping_cents"`
	DiscountCents  int64      `json:"discount_cents"`
	TaxCents       int64      `json:"tax_cents"`
	TotalCents     int64      `json:"total_cents"`
	RefundedCents  int64      `json:"refunded_cents"`
	CustomerID     *uuid.UUID `json:"customer_id,omitempty"`
	PromoCode      string     `json:"promo_code,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Carrier        string     `json:"carrier,omitempty"`
	IdempotencyKey string     `json:"-"`
	Items          []Item     `json:"items,omitempty"`
	Notes          []Note     `json:"notes,omitempty"`
	Events         []Event    `json:"events,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Item is one order line. Product name and variant label are frozen at
// checkout so later catalog edits do not rewrite order history.
type Item struct {
	ID             uuid.UUID  `json:"id"`
	OrderID        uuid.UUID  `json:"order_id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	ProductName    string     `json:"product_name"`
	VariantLabel   string     `json:"variant_label"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	LineTotalCents int64      `json:"line_total_cents"`
}

// Note is an internal admin annotation on an order.
type Note struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Event is one entry in an order's immutable timeline.
type Event struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	Metadata    string    `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckoutItem is one requested line in a checkout payload.
type CheckoutItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutInput is the public checkout payload.
type CheckoutInput struct {
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	Address1   string         `json:"address1"`
	Address2   string         `json:"address2"`
	City       string         `json:"city"`
	State      string         `json:"state"`
	PostalCode string         `json:"postal_code"`
	Country    string         `json:"country"`
	Items      []CheckoutItem `json:"items"`
	PromoCode  string         `json:"promo_code"`
}

// ListFilter narrows the admin order listing.
type ListFilter struct {
	Status Status
	Search string
	Limit  int
	Offset int
}

// checkoutVariant is the purchasable snapshot loaded for one checkout
// line: joined variant and product data plus current stock.
type checkoutVariant struct {
	VariantID      uuid.UUID
	ProductName    string
	VariantLabel   string
	UnitPriceCents int64
	StockOnHand    int
	Sellable       bool
}
