package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const customerCols = `id, email, name, phone, address1, address2, city, state,
	postal_code, country, tags, notes, total_order_count, total_spent_cents,
	last_order_at, created_at, updated_at`

func (r *postgresRepo) ListCustomers(ctx context.Context) ([]*Customer, error) {
	return r.queryCustomers(ctx,
		`SELECT `+customerCols+` FROM customers ORDER BY created_at DESC`)
}

func (r *postgresRepo) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM customers WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("Customer not found")
	}
	return c, err
}

func (r *postgresRepo) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM customers WHERE email=$1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("Customer not found")
	}
	return c, err
}

func (r *postgresRepo) UpdateCustomer(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers SET
		  name=$1, phone=$2, address1=$3, address2=$4, city=$5, state=$6,
		  postal_code=$7, country=$8, tags=$9, notes=$10, updated_at=$11
		WHERE id=$12`,
		c.Name, c.Phone, c.Address1, c.Address2, c.City, c.State,
		c.PostalCode, c.Country, c.Tags, c.Notes, time.Now(), c.ID)
	return err
}

func (r *postgresRepo) ListBySegment(ctx context.Context, segment Segment) ([]*Customer, error) {
	base := `SELECT ` + customerCols + ` FROM customers `
	switch segment {
	case SegmentVIP:
		return r.queryCustomers(ctx,
			base+`WHERE total_spent_cents >= $1 ORDER BY total_spent_cents DESC`,
			VIPSpendThresholdCents)
	case SegmentFirstTime:
		return r.queryCustomers(ctx,
			base+`WHERE total_order_count = 1 ORDER BY created_at DESC`)
	case SegmentInactive:
		cutoff := time.Now().AddDate(0, 0, -InactiveAfterDays)
		return r.queryCustomers(ctx,
			base+`WHERE last_order_at IS NULL OR last_order_at <= $1 ORDER BY created_at DESC`,
			cutoff)
	case SegmentRepeat:
		return r.queryCustomers(ctx,
			base+`WHERE total_order_count >= 2 ORDER BY total_spent_cents DESC`)
	case SegmentAll:
		return r.queryCustomers(ctx, base+`ORDER BY created_at DESC`)
	default:
		return nil, fmt.Errorf("unknown segment %q", segment)
	}
}

func (r *postgresRepo) ListOrderSummaries(ctx context.Context, email string) ([]*OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, total_cents, created_at
		FROM orders WHERE email=$1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*OrderSummary
	for rows.Next() {
		o := &OrderSummary{}
		if err := rows.Scan(&o.ID, &o.Status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) queryCustomers(ctx context.Context, query string, args ...interface{}) ([]*Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*Customer, error) {
	c := &Customer{}
	var lastOrderAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.Email, &c.Name, &c.Phone, &c.Address1, &c.Address2, &c.City, &c.State,
		&c.PostalCode, &c.Country, &c.Tags, &c.Notes, &c.TotalOrderCount, &c.TotalSpentCents,
		&lastOrderAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastOrderAt.Valid {
		t := lastOrderAt.Time
		c.LastOrderAt = &t
	}
	return c, nil
}
