// Package waitlist tracks back-in-stock interest for products.
package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Entry is one back-in-stock signup.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Email     string    `json:"email"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the storage contract for waitlist entries.
type Repository interface {
	AddEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, productID string, pending bool) ([]Entry, error)
	MarkNotified(ctx context.Context, productID string) (int64, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddEntry(ctx context.Context, e *Entry) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM waitlist_entries
			WHERE product_id = $1 AND LOWER(email) = LOWER($2) AND notified = FALSE
		)`, e.ProductID, e.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check waitlist entry: %w", err)
	}
	if exists {
		return apperr.Conflictf("already on the waitlist for this product")
	}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO waitlist_entries (product_id, email)
		VALUES ($1, $2)
		RETURNING id, created_at`, e.ProductID, e.Email).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("add waitlist entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListEntries(ctx context.Context, productID string, pending bool) ([]Entry, error) {
	query := `SELECT id, product_id, email, notified, created_at FROM waitlist_entries`
	args := []interface{}{}
	var clauses []string
	if productID != "" {
		args = append(args, productID)
		clauses = append(clauses, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if pending {
		clauses = append(clauses, "notified = FALSE")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list waitlist entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Email, &e.Notified, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) MarkNotified(ctx context.Context, productID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE waitlist_entries SET notified = TRUE
		WHERE product_id = $1 AND notified = FALSE`, productID)
	if err != nil {
		return 0, fmt.Errorf("mark waitlist notified: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Join signs an email up for a back-in-stock notification.
func (s *Service) Join(ctx context.Context, productID, email string) (*Entry, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Validationf("invalid product id")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validationf("a valid email is required")
	}
	e := &Entry{ProductID: pid, Email: email}
	if err := s.repo.AddEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, productID string, pending bool) ([]Entry, error) {
	return s.repo.ListEntries(ctx, productID, pending)
}

// Notify flags every pending signup for a product as contacted and
// returns how many were flagged.
func (s *Service) Notify(ctx context.Context, productID string) (int64, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return 0, apperr.Validationf("invalid product id")
	}
	return s.repo.MarkNotified(ctx, productID)
}
