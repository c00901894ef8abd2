package customer

import "context"

// Repository defines data access for customer aggregates. Customer rows
// are created and their totals bumped inside the checkout transaction
// (order module); this repository covers the admin read/patch surface.
type Repository interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error

	// ListBySegment evaluates the segment rule as a live query against
	// current aggregates.
	ListBySegment(ctx context.Context, segment Segment) ([]*Customer, error)

	// ListOrderSummaries returns the order history for an email address,
	// newest first.
	ListOrderSummaries(ctx context.Context, email string) ([]*OrderSummary, error)
}
