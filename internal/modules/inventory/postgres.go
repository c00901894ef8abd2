package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Adjust(ctx context.Context, variantID string, change int, reason Reason, note, adjustedBy string) (*Adjustment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin adjustment tx: %w", err)
	}
	defer tx.Rollback()

	var previous int
	err = tx.QueryRowContext(ctx,
		`SELECT stock_on_hand FROM variants WHERE id = $1 FOR UPDATE`, variantID).
		Scan(&previous)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("variant not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock variant stock: %w", err)
	}

	// Only an explicit correction may take stock negative.
	newOnHand := previous + change
	if newOnHand < 0 && reason != ReasonCorrection {
		return nil, apperr.Validationf("adjustment would take stock below zero (on hand %d, change %d)", previous, change)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE variants SET stock_on_hand = $2 WHERE id = $1`, variantID, newOnHand)
	if err != nil {
		return nil, fmt.Errorf("update variant stock: %w", err)
	}

	if adjustedBy == "" {
		adjustedBy = "Admin"
	}
	adj := &Adjustment{
		Change:         change,
		Reason:         reason,
		Note:           note,
		PreviousOnHand: previous,
		NewOnHand:      newOnHand,
		AdjustedBy:     adjustedBy,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO inventory_adjustments (variant_id, quantity_change, reason, notes, previous_on_hand, new_on_hand, author_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, variant_id, created_at`,
		variantID, change, reason, note, previous, newOnHand, adjustedBy,
	).Scan(&adj.ID, &adj.VariantID, &adj.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjustment tx: %w", err)
	}
	return adj, nil
}

const levelCols = `v.id, v.product_id, p.name, v.vessel, v.size_oz, v.wick_type,
	COALESCE(v.sku,''), v.stock_on_hand, v.reorder_point, v.price_cents`

func scanLevel(rows *sql.Rows) (*Level, error) {
	var lv Level
	var vessel, wick string
	var size float64
	err := rows.Scan(&lv.VariantID, &lv.ProductID, &lv.ProductName, &vessel, &size, &wick,
		&lv.SKU, &lv.StockOnHand, &lv.ReorderPoint, &lv.PriceCents)
	if err != nil {
		return nil, err
	}
	lv.VariantLabel = variantLabel(vessel, size, wick)
	return &lv, nil
}

func variantLabel(vessel string, sizeOz float64, wick string) string {
	w := "Cotton"
	if wick == "WOOD" {
		w = "Wood"
	}
	return fmt.Sprintf("%s - %goz - %s Wick", vessel, sizeOz, w)
}

func (r *PostgresRepository) ListLevels(ctx context.Context) ([]Level, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+levelCols+`
		FROM variants v
		JOIN products p ON p.id = v.product_id
		ORDER BY p.name, v.size_oz`)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels: %w", err)
	}
	defer rows.Close()
	return collectLevels(rows)
}

func (r *PostgresRepository) ListLowStock(ctx context.Context, threshold *int) ([]Level, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+levelCols+`
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE p.status = 'ACTIVE' AND v.stock_on_hand <= COALESCE($1, v.reorder_point)
		ORDER BY v.stock_on_hand ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return collectLevels(rows)
}

func collectLevels(rows *sql.Rows) ([]Level, error) {
	var out []Level
	for rows.Next() {
		lv, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		out = append(out, *lv)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListAdjustments(ctx context.Context, variantID string, limit int) ([]Adjustment, error) {
	query := `
		SELECT id, variant_id, quantity_change, reason, notes, previous_on_hand,
			new_on_hand, author_name, created_at
		FROM inventory_adjustments`
	args := []interface{}{}
	if variantID != "" {
		query += ` WHERE variant_id = $1`
		args = append(args, variantID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []Adjustment
	for rows.Next() {
		var a Adjustment
		err := rows.Scan(&a.ID, &a.VariantID, &a.Change, &a.Reason, &a.Note,
			&a.PreviousOnHand, &a.NewOnHand, &a.AdjustedBy, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
