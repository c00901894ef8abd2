package reports

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository is the read-only aggregate query surface for reporting.
type Repository interface {
	KPIs(ctx context.Context, days int) (*KPIs, error)
	RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error)
	TopProducts(ctx context.Context, days, limit int) ([]TopProduct, error)
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const excludedStatuses = `('CANCELLED','REFUNDED')`

func (r *PostgresRepository) KPIs(ctx context.Context, days int) (*KPIs, error) {
	var k KPIs
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_cents),0), COUNT(*)
		FROM orders
		WHERE status NOT IN `+excludedStatuses+`
			AND created_at >= NOW() - make_interval(days => $1)`,
		days).Scan(&k.RevenueCents, &k.OrderCount)
	if err != nil {
		return nil, fmt.Errorf("query revenue kpis: %w", err)
	}
	if k.OrderCount > 0 {
		k.AvgOrderValueCents = k.RevenueCents / int64(k.OrderCount)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM customers
		WHERE created_at >= NOW() - make_interval(days => $1)`,
		days).Scan(&k.NewCustomerCount)
	if err != nil {
		return nil, fmt.Errorf("query customer kpis: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(oi.quantity),0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status NOT IN `+excludedStatuses+`
			AND o.created_at >= NOW() - make_interval(days => $1)`,
		days).Scan(&k.UnitsSold)
	if err != nil {
		return nil, fmt.Errorf("query units sold: %w", err)
	}
	return &k, nil
}

func (r *PostgresRepository) RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE_TRUNC('day', created_at) AS day, COALESCE(SUM(total_cents),0), COUNT(*)
		FROM orders
		WHERE status NOT IN `+excludedStatuses+`
			AND created_at >= NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day ASC`, days)
	if err != nil {
		return nil, fmt.Errorf("query revenue by day: %w", err)
	}
	defer rows.Close()

	var out []RevenuePoint
	for rows.Next() {
		var p RevenuePoint
		if err := rows.Scan(&p.Day, &p.RevenueCents, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("scan revenue point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) TopProducts(ctx context.Context, days, limit int) ([]TopProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_name, SUM(oi.quantity), SUM(oi.line_total_cents)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status NOT IN `+excludedStatuses+`
			AND o.created_at >= NOW() - make_interval(days => $1)
		GROUP BY oi.product_name
		ORDER BY SUM(oi.line_total_cents) DESC
		LIMIT $2`, days, limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()

	var out []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductName, &p.UnitsSold, &p.RevenueCents); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT 'order' AS type, o.id, 'Order from ' || o.email || ' (' || o.status || ')', o.created_at
		FROM orders o
		UNION ALL
		SELECT 'review', rv.id, 'Review by ' || rv.customer_name, rv.created_at
		FROM reviews rv
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent activity: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.Type, &a.EntityID, &a.Description, &a.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
