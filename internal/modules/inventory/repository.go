package inventory

import "context"

// Repository is the storage contract for the stock ledger.
type Repository interface {
	// Adjust applies a stock change atomically and returns the ledger
	// entry with before/after snapshots filled in.
	Adjust(ctx context.Context, variantID string, change int, reason Reason, note, adjustedBy string) (*Adjustment, error)
	ListLevels(ctx context.Context) ([]Level, error)
	ListLowStock(ctx context.Context, threshold *int) ([]Level, error)
	ListAdjustments(ctx context.Context, variantID string, limit int) ([]Adjustment, error)
}
