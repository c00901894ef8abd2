package promotion

import "context"

// Repository is the storage contract for promotions.
type Repository interface {
	ListPromotions(ctx context.Context) ([]Promotion, error)
	GetPromotionByID(ctx context.Context, id string) (*Promotion, error)
	GetPromotionByCode(ctx context.Context, code string) (*Promotion, error)
	CreatePromotion(ctx context.Context, p *Promotion) error
	UpdatePromotion(ctx context.Context, p *Promotion) error
	DeletePromotion(ctx context.Context, id string) error
	// Deactivate clears the active flag without touching anything else.
	Deactivate(ctx context.Context, id string) error
	// ProductStock sums stock_on_hand across a product's variants.
	ProductStock(ctx context.Context, productID string) (int, error)
	// PromoPerformance aggregates order usage per promo code.
	PromoPerformance(ctx context.Context) ([]Performance, error)
}
