package audit

import "context"

// Repository defines data access for audit entries.
type Repository interface {
	// CreateEntry appends one audit entry.
	CreateEntry(ctx context.Context, e *Entry) error

	// ListEntries returns entries newest first, honoring the filter.
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
}
