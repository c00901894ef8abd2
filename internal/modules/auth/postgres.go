package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userCols = `id, email, password_hash, name, role, active, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*AdminUser, error) {
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]AdminUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM admin_users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	defer rows.Close()

	var out []AdminUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*AdminUser, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM admin_users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("admin user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*AdminUser, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM admin_users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("admin user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user by email: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count admin users: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *AdminUser) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (email, password_hash, name, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.Name, u.Role, u.Active,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperr.Conflictf("an account with that email already exists")
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, u *AdminUser) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET email = $2, password_hash = $3, name = $4, role = $5,
			active = $6, updated_at = NOW()
		WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Active)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperr.Conflictf("an account with that email already exists")
		}
		return fmt.Errorf("update admin user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("admin user not found")
	}
	return nil
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET reset_token = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`, id, token, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("admin user not found")
	}
	return nil
}

func (r *PostgresRepository) GetUserByResetToken(ctx context.Context, token string) (*AdminUser, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userCols+` FROM admin_users
		WHERE reset_token = $1 AND reset_token_expires_at > NOW()`, token)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.Validationf("reset token is invalid or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) ClearResetToken(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET password_hash = $2, reset_token = NULL,
			reset_token_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}
