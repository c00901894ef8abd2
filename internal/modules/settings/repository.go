package settings

import "context"

// Repository defines data access for the key/value settings store.
type Repository interface {
	// GetSetting returns the value for key, or "" when unset.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting upserts one key/value pair.
	SetSetting(ctx context.Context, key, value string) error
}
