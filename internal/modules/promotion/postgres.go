package promotion

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const promoCols = `id, code, COALESCE(description,''), discount_type, discount_value,
	min_spend_cents, max_usage_count, used_count, applies_to_product_id,
	applies_to_collection_id, COALESCE(customer_email,''), starts_at, ends_at, active, created_at`

func scanPromotion(row interface{ Scan(...interface{}) error }) (*Promotion, error) {
	var p Promotion
	var productID, collectionID uuid.NullUUID
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.DiscountValue,
		&p.MinSpendCents, &p.MaxUsageCount, &p.UsedCount, &productID,
		&collectionID, &p.CustomerEmail, &p.StartsAt, &p.EndsAt, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if productID.Valid {
		p.AppliesToProductID = &productID.UUID
	}
	if collectionID.Valid {
		p.AppliesToCollectionID = &collectionID.UUID
	}
	return &p, nil
}

func (r *PostgresRepository) ListPromotions(ctx context.Context) ([]Promotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+promoCols+` FROM promotions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var out []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetPromotionByID(ctx context.Context, id string) (*Promotion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+promoCols+` FROM promotions WHERE id = $1`, id)
	p, err := scanPromotion(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("promotion not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetPromotionByCode(ctx context.Context, code string) (*Promotion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+promoCols+` FROM promotions WHERE code = $1`, code)
	p, err := scanPromotion(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("promo code not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get promotion by code: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) CreatePromotion(ctx context.Context, p *Promotion) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO promotions (code, description, discount_type, discount_value,
			min_spend_cents, max_usage_count, applies_to_product_id,
			applies_to_collection_id, customer_email, starts_at, ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, used_count, created_at`,
		p.Code, p.Description, p.DiscountType, p.DiscountValue,
		p.MinSpendCents, p.MaxUsageCount, p.AppliesToProductID,
		p.AppliesToCollectionID, p.CustomerEmail, p.StartsAt, p.EndsAt, p.Active,
	).Scan(&p.ID, &p.UsedCount, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperr.Conflictf("promo code %s already exists", p.Code)
		}
		return fmt.Errorf("create promotion: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePromotion(ctx context.Context, p *Promotion) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE promotions SET code = $2, description = $3, discount_type = $4,
			discount_value = $5, min_spend_cents = $6, max_usage_count = $7,
			applies_to_product_id = $8, applies_to_collection_id = $9,
			customer_email = $10, starts_at = $11, ends_at = $12, active = $13
		WHERE id = $1`,
		p.ID, p.Code, p.Description, p.DiscountType, p.DiscountValue,
		p.MinSpendCents, p.MaxUsageCount, p.AppliesToProductID, p.AppliesToCollectionID,
		p.CustomerEmail, p.StartsAt, p.EndsAt, p.Active)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperr.Conflictf("promo code %s already exists", p.Code)
		}
		return fmt.Errorf("update promotion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("promotion not found")
	}
	return nil
}

func (r *PostgresRepository) DeletePromotion(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("promotion not found")
	}
	return nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE promotions SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate promotion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("promotion not found")
	}
	return nil
}

func (r *PostgresRepository) ProductStock(ctx context.Context, productID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(stock_on_hand), 0) FROM variants WHERE product_id = $1`, productID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum product stock: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) PromoPerformance(ctx context.Context) ([]Performance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.promo_code, COUNT(*), COALESCE(SUM(o.total_cents),0), COALESCE(SUM(o.discount_cents),0),
			p.id, p.discount_type, p.discount_value, p.active
		FROM orders o
		LEFT JOIN promotions p ON p.code = o.promo_code
		WHERE o.promo_code <> '' AND o.status NOT IN ('CANCELLED','REFUNDED')
		GROUP BY o.promo_code, p.id, p.discount_type, p.discount_value, p.active
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("promo performance: %w", err)
	}
	defer rows.Close()

	var out []Performance
	for rows.Next() {
		var perf Performance
		var promoID uuid.NullUUID
		var active sql.NullBool
		var dtype *string
		var dvalue *int64
		err := rows.Scan(&perf.PromoCode, &perf.UsageCount, &perf.TotalRevenue, &perf.TotalDiscount,
			&promoID, &dtype, &dvalue, &active)
		if err != nil {
			return nil, fmt.Errorf("scan promo performance: %w", err)
		}
		if promoID.Valid {
			perf.PromoID = &promoID.UUID
		}
		perf.Active = active.Valid && active.Bool
		if dtype != nil {
			perf.DiscountType = DiscountType(*dtype)
		}
		if dvalue != nil {
			perf.DiscountValue = *dvalue
		}
		out = append(out, perf)
	}
	return out, rows.Err()
}
