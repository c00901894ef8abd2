package auth

import (
	"context"
	"time"
)

// Repository is the storage contract for admin accounts.
type Repository interface {
	ListUsers(ctx context.Context) ([]AdminUser, error)
	GetUserByID(ctx context.Context, id string) (*AdminUser, error)
	GetUserByEmail(ctx context.Context, email string) (*AdminUser, error)
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, u *AdminUser) error
	UpdateUser(ctx context.Context, u *AdminUser) error
	TouchLastLogin(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (*AdminUser, error)
	ClearResetToken(ctx context.Context, id, passwordHash string) error
}
