package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Reason classifies why stock changed.
type Reason string

const (
	ReasonRestock    Reason = "RESTOCK"
	ReasonSale       Reason = "SALE"
	ReasonDamage     Reason = "DAMAGE"
	ReasonCorrection Reason = "CORRECTION"
	ReasonReturn     Reason = "RETURN"
	ReasonInitial    Reason = "INITIAL"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonRestock, ReasonSale, ReasonDamage, ReasonCorrection, ReasonReturn, ReasonInitial:
		return true
	}
	return false
}

// Adjustment is one ledger entry recording a stock change with
// before and after snapshots.
type Adjustment struct {
	ID             uuid.UUID `json:"id"`
	VariantID      uuid.UUID `json:"variant_id"`
	Change         int       `json:"change"`
	Reason         Reason    `json:"reason"`
	Note           string    `json:"note,omitempty"`
	PreviousOnHand int       `json:"previous_on_hand"`
	NewOnHand      int       `json:"new_on_hand"`
	AdjustedBy     string    `json:"adjusted_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Level is a flattened stock row joining a variant to its product.
type Level struct {
	VariantID    uuid.UUID `json:"variant_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	VariantLabel string    `json:"variant_label"`
	SKU          string    `json:"sku,omitempty"`
	StockOnHand  int       `json:"stock_on_hand"`
	ReorderPoint int       `json:"reorder_point"`
	PriceCents   int64     `json:"price_cents"`
}

// AdjustInput is the payload for a manual stock adjustment.
type AdjustInput struct {
	VariantID string `json:"variant_id"`
	Change    int    `json:"change"`
	Reason    string `json:"reason"`
	Note      string `json:"note"`
}
