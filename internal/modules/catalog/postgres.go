package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emberhollow/shop-api/pkg/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productCols = `id, name, slug, description, image_url, active, featured, status,
	scent_notes, wax_type, burn_time, tags, category_id, collection_id,
	cost_cents, compare_at_price_cents, scheduled_at, is_limited_edition,
	created_at, updated_at`

const variantCols = `id, product_id, vessel, size_oz, wick_type, price_cents,
	cost_cents, compare_at_price_cents, COALESCE(sku, ''), active,
	stock_on_hand, stock_reserved, reorder_point, quantity_cap, created_at`

func (r *postgresRepo) ListProducts(ctx context.Context, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productCols + ` FROM products`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	return r.queryProductsWithVariants(ctx, query, activeOnly)
}

func (r *postgresRepo) ListFeaturedProducts(ctx context.Context) ([]*Product, error) {
	query := `SELECT ` + productCols + ` FROM products WHERE active = TRUE AND featured = TRUE ORDER BY created_at DESC`
	return r.queryProductsWithVariants(ctx, query, true)
}

func (r *postgresRepo) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := r.scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products WHERE slug=$1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, err
	}
	p.Variants, err = r.listVariants(ctx, p.ID.String(), true)
	return p, err
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	p, err := r.scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("Product not found")
	}
	return p, err
}

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, name, slug, description, image_url, active, featured, status,
		   scent_notes, wax_type, burn_time, tags, category_id, collection_id,
		   cost_cents, compare_at_price_cents, scheduled_at, is_limited_edition)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		p.ID, p.Name, p.Slug, p.Description, p.ImageURL, p.Active, p.Featured, p.Status,
		p.ScentNotes, p.WaxType, p.BurnTime, p.Tags, p.CategoryID, p.CollectionID,
		p.CostCents, p.CompareAtPriceCents, p.ScheduledAt, p.IsLimitedEdition)
	return translateUnique(err, "slug already in use")
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products SET
		  name=$1, slug=$2, description=$3, image_url=$4, active=$5, featured=$6,
		  status=$7, scent_notes=$8, wax_type=$9, burn_time=$10, tags=$11,
		  category_id=$12, collection_id=$13, cost_cents=$14,
		  compare_at_price_cents=$15, scheduled_at=$16, is_limited_edition=$17,
		  updated_at=$18
		WHERE id=$19`,
		p.Name, p.Slug, p.Description, p.ImageURL, p.Active, p.Featured,
		p.Status, p.ScentNotes, p.WaxType, p.BurnTime, p.Tags,
		p.CategoryID, p.CollectionID, p.CostCents,
		p.CompareAtPriceCents, p.ScheduledAt, p.IsLimitedEdition,
		time.Now(), p.ID)
	return translateUnique(err, "slug already in use")
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func (r *postgresRepo) GetVariantByID(ctx context.Context, id string) (*Variant, error) {
	v, err := r.scanVariant(r.db.QueryRowContext(ctx,
		`SELECT `+variantCols+` FROM variants WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("Variant not found")
	}
	return v, err
}

func (r *postgresRepo) ListVariantsByProduct(ctx context.Context, productID string) ([]*Variant, error) {
	return r.listVariants(ctx, productID, false)
}

func (r *postgresRepo) CreateVariant(ctx context.Context, v *Variant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO variants
		  (id, product_id, vessel, size_oz, wick_type, price_cents, cost_cents,
		   compare_at_price_cents, sku, active, stock_on_hand, stock_reserved,
		   reorder_point, quantity_cap)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		v.ID, v.ProductID, v.Vessel, v.SizeOz, v.WickType, v.PriceCents, v.CostCents,
		v.CompareAtPriceCents, nullableString(v.SKU), v.Active, v.StockOnHand,
		v.StockReserved, v.ReorderPoint, v.QuantityCap)
	return translateUnique(err, "sku already in use")
}

func (r *postgresRepo) UpdateVariant(ctx context.Context, v *Variant) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE variants SET
		  vessel=$1, size_oz=$2, wick_type=$3, price_cents=$4, cost_cents=$5,
		  compare_at_price_cents=$6, sku=$7, active=$8, reorder_point=$9,
		  quantity_cap=$10
		WHERE id=$11`,
		v.Vessel, v.SizeOz, v.WickType, v.PriceCents, v.CostCents,
		v.CompareAtPriceCents, nullableString(v.SKU), v.Active, v.ReorderPoint,
		v.QuantityCap, v.ID)
	return translateUnique(err, "sku already in use")
}

func (r *postgresRepo) DeleteVariant(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM variants WHERE id=$1`, id)
	return err
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, description, sort_order, created_at FROM categories ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, sort_order)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Name, c.Slug, c.Description, c.SortOrder)
	return translateUnique(err, "slug already in use")
}

func (r *postgresRepo) DeleteCategory(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return err
}

func (r *postgresRepo) ListCollections(ctx context.Context) ([]*Collection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, description, image_url, active, created_at FROM collections ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []*Collection
	for rows.Next() {
		c := &Collection{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (r *postgresRepo) CreateCollection(ctx context.Context, c *Collection) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, slug, description, image_url, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.Active)
	return translateUnique(err, "slug already in use")
}

func (r *postgresRepo) DeleteCollection(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id=$1`, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryProductsWithVariants(ctx context.Context, query string, activeVariantsOnly bool) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range products {
		p.Variants, err = r.listVariants(ctx, p.ID.String(), activeVariantsOnly)
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var categoryID, collectionID sql.NullString
	var scheduledAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ImageURL, &p.Active, &p.Featured, &p.Status,
		&p.ScentNotes, &p.WaxType, &p.BurnTime, &p.Tags, &categoryID, &collectionID,
		&p.CostCents, &p.CompareAtPriceCents, &scheduledAt, &p.IsLimitedEdition,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = parseNullUUID(categoryID)
	p.CollectionID = parseNullUUID(collectionID)
	if scheduledAt.Valid {
		t := scheduledAt.Time
		p.ScheduledAt = &t
	}
	return p, nil
}

func (r *postgresRepo) scanVariant(row rowScanner) (*Variant, error) {
	v := &Variant{}
	var quantityCap sql.NullInt64
	err := row.Scan(
		&v.ID, &v.ProductID, &v.Vessel, &v.SizeOz, &v.WickType, &v.PriceCents,
		&v.CostCents, &v.CompareAtPriceCents, &v.SKU, &v.Active,
		&v.StockOnHand, &v.StockReserved, &v.ReorderPoint, &quantityCap, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if quantityCap.Valid {
		n := int(quantityCap.Int64)
		v.QuantityCap = &n
	}
	return v, nil
}

func (r *postgresRepo) listVariants(ctx context.Context, productID string, activeOnly bool) ([]*Variant, error) {
	query := `SELECT ` + variantCols + ` FROM variants WHERE product_id=$1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var variants []*Variant
	for rows.Next() {
		v, err := r.scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func parseNullUUID(ns sql.NullString) *uuid.UUID {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil
	}
	return &id
}

func translateUnique(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperr.Conflictf("%s", msg)
	}
	return fmt.Errorf("catalog write: %w", err)
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
