package review

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reviewCols = `id, product_id, customer_id, customer_email, customer_name, rating,
	title, body, verified, approved, incentive_coupon_code, order_id, created_at`

func scanReview(row interface{ Scan(...interface{}) error }) (*Review, error) {
	var rv Review
	var customerID, orderID uuid.NullUUID
	err := row.Scan(&rv.ID, &rv.ProductID, &customerID, &rv.CustomerEmail, &rv.CustomerName,
		&rv.Rating, &rv.Title, &rv.Body, &rv.Verified, &rv.Approved,
		&rv.IncentiveCouponCode, &orderID, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		rv.CustomerID = &customerID.UUID
	}
	if orderID.Valid {
		rv.OrderID = &orderID.UUID
	}
	return &rv, nil
}

func (r *PostgresRepository) CreateReview(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, customer_id, customer_email, customer_name, rating,
			title, body, verified, approved, incentive_coupon_code, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		rv.ProductID, rv.CustomerID, rv.CustomerEmail, rv.CustomerName, rv.Rating,
		rv.Title, rv.Body, rv.Verified, rv.Approved, rv.IncentiveCouponCode, rv.OrderID,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListApprovedByProduct(ctx context.Context, productID string) ([]Review, Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewCols+` FROM reviews
		WHERE product_id = $1 AND approved = TRUE
		ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("list approved reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	var sum Summary
	var total int
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("scan review: %w", err)
		}
		// Public listing hides reviewer emails.
		rv.CustomerEmail = ""
		total += rv.Rating
		out = append(out, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, Summary{}, err
	}
	sum.Count = len(out)
	if sum.Count > 0 {
		sum.AverageRating = float64(total) / float64(sum.Count)
	}
	return out, sum, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context, approved *bool) ([]Review, error) {
	query := `SELECT ` + reviewCols + ` FROM reviews`
	args := []interface{}{}
	if approved != nil {
		query += ` WHERE approved = $1`
		args = append(args, *approved)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetReviewByID(ctx context.Context, id string) (*Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewCols+` FROM reviews WHERE id = $1`, id)
	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("review not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return fmt.Errorf("set review approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("review not found")
	}
	return nil
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("review not found")
	}
	return nil
}

func (r *PostgresRepository) HasPurchased(ctx context.Context, email, productID string) (bool, string, error) {
	var orderID string
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN variants v ON v.id = oi.variant_id
		WHERE LOWER(o.email) = LOWER($1) AND v.product_id = $2
			AND o.status NOT IN ('CANCELLED','REFUNDED')
		ORDER BY o.created_at DESC
		LIMIT 1`, email, productID).Scan(&orderID)
	if err == sql.ErrNoRows {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("check purchase: %w", err)
	}
	return true, orderID, nil
}

func (r *PostgresRepository) HasReviewed(ctx context.Context, email, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE LOWER(customer_email) = LOWER($1) AND product_id = $2
		)`, email, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	return exists, nil
}
