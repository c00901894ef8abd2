package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

type fakeCatalogRepo struct {
	products map[string]*Product
	variants map[string]*Variant
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products: map[string]*Product{},
		variants: map[string]*Variant{},
	}
}

func (f *fakeCatalogRepo) ListProducts(context.Context, bool) ([]*Product, error)   { return nil, nil }
func (f *fakeCatalogRepo) ListFeaturedProducts(context.Context) ([]*Product, error) { return nil, nil }

func (f *fakeCatalogRepo) GetProductBySlug(_ context.Context, slug string) (*Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperr.NotFoundf("product not found")
}

func (f *fakeCatalogRepo) GetProductByID(_ context.Context, id string) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFoundf("product not found")
	}
	return p, nil
}

func (f *fakeCatalogRepo) CreateProduct(_ context.Context, p *Product) error {
	f.products[p.ID.String()] = p
	return nil
}

func (f *fakeCatalogRepo) UpdateProduct(_ context.Context, p *Product) error {
	f.products[p.ID.String()] = p
	return nil
}

func (f *fakeCatalogRepo) DeleteProduct(_ context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogRepo) GetVariantByID(_ context.Context, id string) (*Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, apperr.NotFoundf("variant not found")
	}
	return v, nil
}

func (f *fakeCatalogRepo) ListVariantsByProduct(context.Context, string) ([]*Variant, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) CreateVariant(_ context.Context, v *Variant) error {
	f.variants[v.ID.String()] = v
	return nil
}

func (f *fakeCatalogRepo) UpdateVariant(_ context.Context, v *Variant) error {
	f.variants[v.ID.String()] = v
	return nil
}

func (f *fakeCatalogRepo) DeleteVariant(_ context.Context, id string) error {
	delete(f.variants, id)
	return nil
}

func (f *fakeCatalogRepo) ListCategories(context.Context) ([]*Category, error)    { return nil, nil }
func (f *fakeCatalogRepo) CreateCategory(context.Context, *Category) error        { return nil }
func (f *fakeCatalogRepo) DeleteCategory(context.Context, string) error           { return nil }
func (f *fakeCatalogRepo) ListCollections(context.Context) ([]*Collection, error) { return nil, nil }
func (f *fakeCatalogRepo) CreateCollection(context.Context, *Collection) error    { return nil }
func (f *fakeCatalogRepo) DeleteCollection(context.Context, string) error         { return nil }

func TestVariantLabel(t *testing.T) {
	v := &Variant{Vessel: "Amber Jar", SizeOz: 8, WickType: WickCotton}
	assert.Equal(t, "Amber Jar - 8oz - Cotton Wick", v.Label())

	v = &Variant{Vessel: "Travel Tin", SizeOz: 4.5, WickType: WickWood}
	assert.Equal(t, "Travel Tin - 4.5oz - Wood Wick", v.Label())
}

func TestCreateProductDefaultsAndValidation(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{Slug: "no-name"})
	require.Error(t, err)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "No Slug"})
	require.Error(t, err)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Bad", Slug: "bad", Status: "RETIRED"})
	require.Error(t, err)

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Cedar & Smoke", Slug: "cedar-smoke"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.Active)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestCreateVariantValidation(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Cedar & Smoke", Slug: "cedar-smoke"})
	require.NoError(t, err)

	size := 8.0
	price := int64(2400)

	_, err = svc.CreateVariant(ctx, uuid.NewString(), VariantInput{Vessel: "Jar", SizeOz: &size, WickType: "COTTON", PriceCents: &price})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = svc.CreateVariant(ctx, p.ID.String(), VariantInput{SizeOz: &size, WickType: "COTTON", PriceCents: &price})
	require.Error(t, err)

	_, err = svc.CreateVariant(ctx, p.ID.String(), VariantInput{Vessel: "Jar", SizeOz: &size, WickType: "HEMP", PriceCents: &price})
	require.Error(t, err)

	zero := int64(0)
	_, err = svc.CreateVariant(ctx, p.ID.String(), VariantInput{Vessel: "Jar", SizeOz: &size, WickType: "COTTON", PriceCents: &zero})
	require.Error(t, err)

	v, err := svc.CreateVariant(ctx, p.ID.String(), VariantInput{Vessel: "Amber Jar", SizeOz: &size, WickType: "COTTON", PriceCents: &price})
	require.NoError(t, err)
	assert.Equal(t, p.ID, v.ProductID)
	assert.Equal(t, 5, v.ReorderPoint)
	assert.True(t, v.Active)
	assert.Equal(t, "Amber Jar - 8oz - Cotton Wick", v.Label())
}

func TestUpdateProductPartial(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Cedar & Smoke", Slug: "cedar-smoke"})
	require.NoError(t, err)

	featured := true
	updated, err := svc.UpdateProduct(ctx, p.ID.String(), ProductInput{Featured: &featured, Status: "DRAFT"})
	require.NoError(t, err)
	assert.Equal(t, "Cedar & Smoke", updated.Name)
	assert.True(t, updated.Featured)
	assert.Equal(t, StatusDraft, updated.Status)
}

func TestUpdateVariantPriceChange(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Cedar & Smoke", Slug: "cedar-smoke"})
	require.NoError(t, err)

	size, price := 8.0, int64(2400)
	v, err := svc.CreateVariant(ctx, p.ID.String(), VariantInput{Vessel: "Jar", SizeOz: &size, WickType: "COTTON", PriceCents: &price})
	require.NoError(t, err)

	newPrice := int64(2600)
	updated, err := svc.UpdateVariant(ctx, v.ID.String(), VariantInput{PriceCents: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(2600), updated.PriceCents)
	assert.Equal(t, "Jar", updated.Vessel)

	bad := int64(-5)
	_, err = svc.UpdateVariant(ctx, v.ID.String(), VariantInput{PriceCents: &bad})
	require.Error(t, err)
}
