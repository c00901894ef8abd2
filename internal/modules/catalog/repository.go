package catalog

import "context"

// Repository defines data access for the product catalog.
type Repository interface {
	// ListProducts returns products newest first, each with its
	// variants. When activeOnly is set, inactive products and inactive
	// variants are filtered out.
	ListProducts(ctx context.Context, activeOnly bool) ([]*Product, error)

	// ListFeaturedProducts returns active, featured products with
	// their active variants.
	ListFeaturedProducts(ctx context.Context) ([]*Product, error)

	// GetProductBySlug returns one product with its active variants.
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)

	// GetProductByID returns one product without variants.
	GetProductByID(ctx context.Context, id string) (*Product, error)

	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	GetVariantByID(ctx context.Context, id string) (*Variant, error)
	ListVariantsByProduct(ctx context.Context, productID string) ([]*Variant, error)
	CreateVariant(ctx context.Context, v *Variant) error
	UpdateVariant(ctx context.Context, v *Variant) error
	DeleteVariant(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListCollections(ctx context.Context) ([]*Collection, error)
	CreateCollection(ctx context.Context, c *Collection) error
	DeleteCollection(ctx context.Context, id string) error
}
