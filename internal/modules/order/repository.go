package order

import "context"

// Repository is the storage contract for orders. CreateOrder runs the
// entire checkout write set in one transaction.
type Repository interface {
	// VariantsForCheckout loads the purchasable snapshot for each
	// requested variant id, keyed by id. Missing ids are absent.
	VariantsForCheckout(ctx context.Context, ids []string) (map[string]checkoutVariant, error)

	// FindByIdempotencyKey returns the order previously created with
	// this key, or nil when none exists.
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)

	// CreateOrder atomically inserts the order and its items, decrements
	// stock with ledger entries, upserts the customer and bumps their
	// aggregates, appends the creation event and counts promo usage.
	CreateOrder(ctx context.Context, o *Order) error

	ListOrders(ctx context.Context, f ListFilter) ([]Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	UpdateStatus(ctx context.Context, id string, status Status) error
	SetTracking(ctx context.Context, id, trackingNumber, carrier string) error
	AddRefund(ctx context.Context, id string, amountCents int64, newStatus Status) error
	// RestockItems returns every item quantity to stock with ledger
	// entries, used when an order is cancelled.
	RestockItems(ctx context.Context, o *Order) error

	AppendEvent(ctx context.Context, orderID, eventType, description, metadata string) error
	AddNote(ctx context.Context, orderID, content, author string) (*Note, error)
}
