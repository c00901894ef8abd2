package reports

import (
	"time"

	"github.com/google/uuid"
)

// KPIs is the dashboard headline block for a period. Cancelled and
// refunded orders are excluded from every figure.
type KPIs struct {
	RevenueCents       int64 `json:"revenue_cents"`
	OrderCount         int   `json:"order_count"`
	AvgOrderValueCents int64 `json:"avg_order_value_cents"`
	NewCustomerCount   int   `json:"new_customer_count"`
	UnitsSold          int   `json:"units_sold"`
}

// RevenuePoint is one day's revenue in the revenue-by-day series.
type RevenuePoint struct {
	Day          time.Time `json:"day"`
	RevenueCents int64     `json:"revenue_cents"`
	OrderCount   int       `json:"order_count"`
}

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductName  string `json:"product_name"`
	UnitsSold    int    `json:"units_sold"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	Type        string    `json:"type"`
	EntityID    uuid.UUID `json:"entity_id"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}
