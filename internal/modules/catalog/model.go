package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the catalog lifecycle state of a product.
type ProductStatus string

const (
	StatusDraft    ProductStatus = "DRAFT"
	StatusActive   ProductStatus = "ACTIVE"
	StatusArchived ProductStatus = "ARCHIVED"
)

// WickType is the wick material of a variant.
type WickType string

const (
	WickCotton WickType = "COTTON"
	WickWood   WickType = "WOOD"
)

// Product is a catalog entry. Products are never hard-deleted in a way
// that breaks order history: order items carry denormalized snapshots.
type Product struct {
	ID                  uuid.UUID     `json:"id"`
	Name                string        `json:"name"`
	Slug                string        `json:"slug"`
	Description         string        `json:"description,omitempty"`
	ImageURL            string        `json:"image_url,omitempty"`
	Active              bool          `json:"active"`
	Featured            bool          `json:"featured"`
	Status              ProductStatus `json:"status"`
	ScentNotes          string        `json:"scent_notes,omitempty"`
	WaxType             string        `json:"wax_type,omitempty"`
	BurnTime            string        `json:"burn_time,omitempty"`
	Tags                string        `json:"tags,omitempty"`
	CategoryID          *uuid.UUID    `json:"category_id,omitempty"`
	CollectionID        *uuid.UUID    `json:"collection_id,omitempty"`
	CostCents           *int64        `json:"cost_cents,omitempty"`
	CompareAtPriceCents *int64        `json:"compare_at_price_cents,omitempty"`
	ScheduledAt         *time.Time    `json:"scheduled_at,omitempty"`
	IsLimitedEdition    bool          `json:"is_limited_edition"`
	Variants            []*Variant    `json:"variants,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// Variant is one purchasable SKU of a product: a fixed combination of
// vessel, size and wick type. Stock fields are owned by the inventory
// ledger and never written through this module.
type Variant struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"product_id"`
	Vessel              string    `json:"vessel"`
	SizeOz              float64   `json:"size_oz"`
	WickType            WickType  `json:"wick_type"`
	PriceCents          int64     `json:"price_cents"`
	CostCents           *int64    `json:"cost_cents,omitempty"`
	CompareAtPriceCents *int64    `json:"compare_at_price_cents,omitempty"`
	SKU                 string    `json:"sku,omitempty"`
	Active              bool      `json:"active"`
	StockOnHand         int       `json:"stock_on_hand"`
	StockReserved       int       `json:"stock_reserved"`
	ReorderPoint        int       `json:"reorder_point"`
	QuantityCap         *int      `json:"quantity_cap,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Label renders the variant's customer-facing description, frozen onto
// order items at checkout.
func (v *Variant) Label() string {
	wick := "Cotton Wick"
	if v.WickType == WickWood {
		wick = "Wood Wick"
	}
	return fmt.Sprintf("%s - %goz - %s", v.Vessel, v.SizeOz, wick)
}

// Category groups products for storefront navigation.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// Collection is a curated product grouping (seasonal lines, drops).
type Collection struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductInput is the create/update payload for a product. Pointer
// fields distinguish "not provided" from zero values on update.
type ProductInput struct {
	Name                string     `json:"name"`
	Slug                string     `json:"slug"`
	Description         *string    `json:"description"`
	ImageURL            *string    `json:"image_url"`
	Active              *bool      `json:"active"`
	Featured            *bool      `json:"featured"`
	Status              string     `json:"status"`
	ScentNotes          *string    `json:"scent_notes"`
	WaxType             *string    `json:"wax_type"`
	BurnTime            *string    `json:"burn_time"`
	Tags                *string    `json:"tags"`
	CategoryID          *string    `json:"category_id"`
	CollectionID        *string    `json:"collection_id"`
	CostCents           *int64     `json:"cost_cents"`
	CompareAtPriceCents *int64     `json:"compare_at_price_cents"`
	ScheduledAt         *time.Time `json:"scheduled_at"`
	IsLimitedEdition    *bool      `json:"is_limited_edition"`
}

// VariantInput is the create/update payload for a variant.
type VariantInput struct {
	Vessel              string   `json:"vessel"`
	SizeOz              *float64 `json:"size_oz"`
	WickType            string   `json:"wick_type"`
	PriceCents          *int64   `json:"price_cents"`
	CostCents           *int64   `json:"cost_cents"`
	CompareAtPriceCents *int64   `json:"compare_at_price_cents"`
	SKU                 *string  `json:"sku"`
	Active              *bool    `json:"active"`
	ReorderPoint        *int     `json:"reorder_point"`
	QuantityCap         *int     `json:"quantity_cap"`
}

// CategoryInput is the create payload for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// CollectionInput is the create payload for a collection.
type CollectionInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Active      *bool  `json:"active"`
}
