package order

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

const orderCols = `id, status, email, name, address1, address2, city, state, postal_code,
	country, subtotal_cents, shipping_cents, discount_cents, tax_cents, total_cents,
	refunded_cents, customer_id, promo_code, tracking_number, carrier,
	COALESCE(idempotency_key,''), created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*Order, error) {
	var o Order
	var customerID uuid.NullUUID
	err := row.Scan(&o.ID, &o.Status, &o.Email, &o.Name, &o.Address1, &o.Address2,
		&o.City, &o.State, &o.PostalCode, &o.Country, &o.SubtotalCents, &o.ShippingCents,
		&o.DiscountCents, &o.TaxCents, &o.TotalCents, &o.RefundedCents, &customerID,
		&o.PromoCode, &o.TrackingNumber, &o.Carrier, &o.IdempotencyKey,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		o.CustomerID = &customerID.UUID
	}
	return &o, nil
}

func (r *PostgresRepository) VariantsForCheckout(ctx context.Context, ids []string) (map[string]checkoutVariant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.id, p.name, v.vessel, v.size_oz, v.wick_type, v.price_cents, v.stock_on_hand,
			(v.active AND p.status = 'ACTIVE') AS sellable
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load checkout variants: %w", err)
	}
	defer rows.Close()

	out := make(map[string]checkoutVariant, len(ids))
	for rows.Next() {
		var cv checkoutVariant
		var vessel, wick string
		var size float64
		err := rows.Scan(&cv.VariantID, &cv.ProductName, &vessel, &size, &wick,
			&cv.UnitPriceCents, &cv.StockOnHand, &cv.Sellable)
		if err != nil {
			return nil, fmt.Errorf("scan checkout variant: %w", err)
		}
		wickLabel := "Cotton Wick"
		if wick == "WOOD" {
			wickLabel = "Wood Wick"
		}
		cv.VariantLabel = fmt.Sprintf("%s - %goz - %s", vessel, size, wickLabel)
		out[cv.VariantID.String()] = cv
	}
	return out, rows.Err()
}

func (r *PostgresRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE idempotency_key = $1`, key)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by idempotency key: %w", err)
	}
	if err := r.loadRelations(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback()

	// Customer record first so the order row can reference it.
	var customerID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO customers (email, name, address1, address2, city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name, address1 = EXCLUDED.address1, address2 = EXCLUDED.address2,
			city = EXCLUDED.city, state = EXCLUDED.state, postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country, updated_at = NOW()
		RETURNING id`,
		o.Email, o.Name, o.Address1, o.Address2, o.City, o.State, o.PostalCode, o.Country,
	).Scan(&customerID)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	o.CustomerID = &customerID

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (status, email, name, address1, address2, city, state, postal_code,
			country, subtotal_cents, shipping_cents, discount_cents, tax_cents, total_cents,
			customer_id, promo_code, idempotency_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NULLIF($17,''))
		RETURNING id, created_at, updated_at`,
		o.Status, o.Email, o.Name, o.Address1, o.Address2, o.City, o.State, o.PostalCode,
		o.Country, o.SubtotalCents, o.ShippingCents, o.DiscountCents, o.TaxCents, o.TotalCents,
		customerID, o.PromoCode, o.IdempotencyKey,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperr.Conflictf("checkout already processed")
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		if err := decrementStock(ctx, tx, *item.VariantID, item.Quantity); err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, variant_id, product_name, variant_label, quantity, unit_price_cents, line_total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			o.ID, item.VariantID, item.ProductName, item.VariantLabel,
			item.Quantity, item.UnitPriceCents, item.LineTotalCents,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		item.OrderID = o.ID
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE customers SET total_order_count = total_order_count + 1,
			total_spent_cents = total_spent_cents + $2, last_order_at = NOW()
		WHERE id = $1`, customerID, o.TotalCents)
	if err != nil {
		return fmt.Errorf("bump customer aggregates: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_events (order_id, event_type, description)
		VALUES ($1, 'created', $2)`,
		o.ID, fmt.Sprintf("Order placed, total %d cents", o.TotalCents))
	if err != nil {
		return fmt.Errorf("append creation event: %w", err)
	}

	if o.PromoCode != "" {
		_, err = tx.ExecContext(ctx, `
			UPDATE promotions SET used_count = used_count + 1,
				active = CASE WHEN max_usage_count IS NOT NULL AND used_count + 1 >= max_usage_count
					THEN FALSE ELSE active END
			WHERE code = $1`, o.PromoCode)
		if err != nil {
			return fmt.Errorf("count promo usage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

// decrementStock takes quantity from a variant under row lock and
// writes the matching SALE ledger entry.
func decrementStock(ctx context.Context, tx *sql.Tx, variantID uuid.UUID, qty int) error {
	var previous int
	err := tx.QueryRowContext(ctx,
		`SELECT stock_on_hand FROM variants WHERE id = $1 FOR UPDATE`, variantID).
		Scan(&previous)
	if err == sql.ErrNoRows {
		return apperr.NotFoundf("variant %s not found", variantID)
	}
	if err != nil {
		return fmt.Errorf("lock variant stock: %w", err)
	}
	if previous < qty {
		return apperr.Conflictf("insufficient stock for variant %s (%d on hand, %d requested)", variantID, previous, qty)
	}
	newOnHand := previous - qty
	if _, err := tx.ExecContext(ctx,
		`UPDATE variants SET stock_on_hand = $2 WHERE id = $1`, variantID, newOnHand); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_adjustments (variant_id, quantity_change, reason, notes, previous_on_hand, new_on_hand, author_name)
		VALUES ($1, $2, 'SALE', 'Order checkout', $3, $4, 'System')`,
		variantID, -qty, previous, newOnHand)
	if err != nil {
		return fmt.Errorf("insert sale ledger entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, f ListFilter) ([]Order, error) {
	query := `SELECT ` + orderCols + ` FROM orders`
	args := []interface{}{}
	where := ""
	if f.Status != "" {
		args = append(args, f.Status)
		where = fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clause := fmt.Sprintf("(email ILIKE $%d OR name ILIKE $%d)", len(args), len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	args = append(args, f.Limit, f.Offset)
	query += where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadRelations(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) loadRelations(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, variant_id, product_name, variant_label, quantity, unit_price_cents, line_total_cents
		FROM order_items WHERE order_id = $1`, o.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		var variantID uuid.NullUUID
		err := rows.Scan(&it.ID, &it.OrderID, &variantID, &it.ProductName, &it.VariantLabel,
			&it.Quantity, &it.UnitPriceCents, &it.LineTotalCents)
		if err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if variantID.Valid {
			it.VariantID = &variantID.UUID
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	noteRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, content, author_name, created_at
		FROM order_notes WHERE order_id = $1 ORDER BY created_at DESC`, o.ID)
	if err != nil {
		return fmt.Errorf("load order notes: %w", err)
	}
	defer noteRows.Close()
	for noteRows.Next() {
		var n Note
		if err := noteRows.Scan(&n.ID, &n.OrderID, &n.Content, &n.AuthorName, &n.CreatedAt); err != nil {
			return fmt.Errorf("scan order note: %w", err)
		}
		o.Notes = append(o.Notes, n)
	}
	if err := noteRows.Err(); err != nil {
		return err
	}

	eventRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, event_type, description, metadata, created_at
		FROM order_events WHERE order_id = $1 ORDER BY created_at ASC`, o.ID)
	if err != nil {
		return fmt.Errorf("load order events: %w", err)
	}
	defer eventRows.Close()
	for eventRows.Next() {
		var e Event
		if err := eventRows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.Description, &e.Metadata, &e.CreatedAt); err != nil {
			return fmt.Errorf("scan order event: %w", err)
		}
		o.Events = append(o.Events, e)
	}
	return eventRows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("order not found")
	}
	return nil
}

func (r *PostgresRepository) SetTracking(ctx context.Context, id, trackingNumber, carrier string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET tracking_number = $2, carrier = $3, updated_at = NOW() WHERE id = $1`,
		id, trackingNumber, carrier)
	if err != nil {
		return fmt.Errorf("set tracking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("order not found")
	}
	return nil
}

func (r *PostgresRepository) AddRefund(ctx context.Context, id string, amountCents int64, newStatus Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET refunded_cents = refunded_cents + $2, status = $3, updated_at = NOW()
		WHERE id = $1`, id, amountCents, newStatus)
	if err != nil {
		return fmt.Errorf("add refund: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("order not found")
	}
	return nil
}

func (r *PostgresRepository) RestockItems(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restock tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range o.Items {
		if item.VariantID == nil {
			continue
		}
		var previous int
		err := tx.QueryRowContext(ctx,
			`SELECT stock_on_hand FROM variants WHERE id = $1 FOR UPDATE`, item.VariantID).
			Scan(&previous)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("lock variant stock: %w", err)
		}
		newOnHand := previous + item.Quantity
		if _, err := tx.ExecContext(ctx,
			`UPDATE variants SET stock_on_hand = $2 WHERE id = $1`, item.VariantID, newOnHand); err != nil {
			return fmt.Errorf("restock variant: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_adjustments (variant_id, quantity_change, reason, notes, previous_on_hand, new_on_hand, author_name)
			VALUES ($1, $2, 'RETURN', $3, $4, $5, 'System')`,
			item.VariantID, item.Quantity, "Order "+o.ID.String()+" cancelled", previous, newOnHand)
		if err != nil {
			return fmt.Errorf("insert return ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restock tx: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AppendEvent(ctx context.Context, orderID, eventType, description, metadata string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_events (order_id, event_type, description, metadata)
		VALUES ($1, $2, $3, $4)`, orderID, eventType, description, metadata)
	if err != nil {
		return fmt.Errorf("append order event: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddNote(ctx context.Context, orderID, content, author string) (*Note, error) {
	n := &Note{Content: content, AuthorName: author}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO order_notes (order_id, content, author_name)
		VALUES ($1, $2, $3)
		RETURNING id, order_id, created_at`, orderID, content, author).
		Scan(&n.ID, &n.OrderID, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add order note: %w", err)
	}
	return n, nil
}
