package catalog

import (
	"context"
	"fmt"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
	"github.com/google/uuid"
)

// Service defines catalog business logic for the storefront and the
// admin back office.
type Service interface {
	// Storefront reads
	ListActiveProducts(ctx context.Context) ([]*Product, error)
	ListFeaturedProducts(ctx context.Context) ([]*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)

	// Admin product CRUD
	ListAllProducts(ctx context.Context) ([]*Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Admin variant CRUD
	CreateVariant(ctx context.Context, productID string, in VariantInput) (*Variant, error)
	UpdateVariant(ctx context.Context, id string, in VariantInput) (*Variant, error)
	DeleteVariant(ctx context.Context, id string) error

	// Categories and collections
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCollections(ctx context.Context) ([]*Collection, error)
	CreateCollection(ctx context.Context, in CollectionInput) (*Collection, error)
	DeleteCollection(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	audit audit.Recorder
}

// NewService creates a new catalog service.
func NewService(repo Repository, rec audit.Recorder) Service {
	return &service{repo: repo, audit: rec}
}

func (s *service) ListActiveProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx, true)
}

func (s *service) ListFeaturedProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListFeaturedProducts(ctx)
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetProductBySlug(ctx, slug)
}

func (s *service) ListAllProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx, false)
}

func (s *service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if in.Name == "" {
		return nil, apperr.Validationf("Name is required")
	}
	if in.Slug == "" {
		return nil, apperr.Validationf("Slug is required")
	}
	status := ProductStatus(in.Status)
	if status == "" {
		status = StatusActive
	}
	if status != StatusDraft && status != StatusActive && status != StatusArchived {
		return nil, apperr.Validationf("Invalid status: %s", in.Status)
	}

	p := &Product{
		ID:     uuid.New(),
		Name:   in.Name,
		Slug:   in.Slug,
		Active: true,
		Status: status,
	}
	applyProductInput(p, in)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "product", p.ID.String(), "create",
		fmt.Sprintf("Created product: %s", p.Name), nil, p)
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	before, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *before
	if in.Name != "" {
		updated.Name = in.Name
	}
	if in.Slug != "" {
		updated.Slug = in.Slug
	}
	if in.Status != "" {
		status := ProductStatus(in.Status)
		if status != StatusDraft && status != StatusActive && status != StatusArchived {
			return nil, apperr.Validationf("Invalid status: %s", in.Status)
		}
		updated.Status = status
	}
	applyProductInput(&updated, in)
	if err := s.repo.UpdateProduct(ctx, &updated); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "product", id, "update",
		fmt.Sprintf("Updated product: %s", updated.Name), before, &updated)
	return &updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	before, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, "product", id, "delete",
		fmt.Sprintf("Deleted product: %s", before.Name), before, nil)
	return nil
}

func (s *service) CreateVariant(ctx context.Context, productID string, in VariantInput) (*Variant, error) {
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Validationf("invalid product id")
	}
	if in.Vessel == "" {
		return nil, apperr.Validationf("Vessel is required")
	}
	if in.SizeOz == nil || *in.SizeOz <= 0 {
		return nil, apperr.Validationf("Size must be positive")
	}
	wick := WickType(in.WickType)
	if wick != WickCotton && wick != WickWood {
		return nil, apperr.Validationf("Invalid wick type: %s", in.WickType)
	}
	if in.PriceCents == nil || *in.PriceCents <= 0 {
		return nil, apperr.Validationf("Price must be positive")
	}

	v := &Variant{
		ID:           uuid.New(),
		ProductID:    pid,
		Vessel:       in.Vessel,
		SizeOz:       *in.SizeOz,
		WickType:     wick,
		PriceCents:   *in.PriceCents,
		CostCents:    in.CostCents,
		Active:       true,
		ReorderPoint: 5,
		QuantityCap:  in.QuantityCap,
	}
	if in.SKU != nil {
		v.SKU = *in.SKU
	}
	if in.Active != nil {
		v.Active = *in.Active
	}
	if in.ReorderPoint != nil {
		v.ReorderPoint = *in.ReorderPoint
	}
	v.CompareAtPriceCents = in.CompareAtPriceCents
	if err := s.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	label := v.SKU
	if label == "" {
		label = v.ID.String()
	}
	s.audit.Record(ctx, "variant", v.ID.String(), "create",
		fmt.Sprintf("Created variant: %s", label), nil, v)
	return v, nil
}

func (s *service) UpdateVariant(ctx context.Context, id string, in VariantInput) (*Variant, error) {
	before, err := s.repo.GetVariantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *before
	if in.Vessel != "" {
		updated.Vessel = in.Vessel
	}
	if in.SizeOz != nil {
		updated.SizeOz = *in.SizeOz
	}
	if in.WickType != "" {
		wick := WickType(in.WickType)
		if wick != WickCotton && wick != WickWood {
			return nil, apperr.Validationf("Invalid wick type: %s", in.WickType)
		}
		updated.WickType = wick
	}
	if in.PriceCents != nil {
		if *in.PriceCents <= 0 {
			return nil, apperr.Validationf("Price must be positive")
		}
		updated.PriceCents = *in.PriceCents
	}
	if in.CostCents != nil {
		updated.CostCents = in.CostCents
	}
	if in.CompareAtPriceCents != nil {
		updated.CompareAtPriceCents = in.CompareAtPriceCents
	}
	if in.SKU != nil {
		updated.SKU = *in.SKU
	}
	if in.Active != nil {
		updated.Active = *in.Active
	}
	if in.ReorderPoint != nil {
		updated.ReorderPoint = *in.ReorderPoint
	}
	if in.QuantityCap != nil {
		updated.QuantityCap = in.QuantityCap
	}
	if err := s.repo.UpdateVariant(ctx, &updated); err != nil {
		return nil, err
	}
	// Price changes get their own audit entry so price history is queryable.
	if before.PriceCents != updated.PriceCents {
		s.audit.Record(ctx, "variant", id, "price_change",
			fmt.Sprintf("Price: %d -> %d", before.PriceCents, updated.PriceCents),
			map[string]int64{"price_cents": before.PriceCents},
			map[string]int64{"price_cents": updated.PriceCents})
	} else {
		s.audit.Record(ctx, "variant", id, "update", "Updated variant", before, &updated)
	}
	return &updated, nil
}

func (s *service) DeleteVariant(ctx context.Context, id string) error {
	if _, err := s.repo.GetVariantByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteVariant(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, "variant", id, "delete", "Deleted variant", nil, nil)
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if in.Name == "" || in.Slug == "" {
		return nil, apperr.Validationf("Name and slug are required")
	}
	c := &Category{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		SortOrder:   in.SortOrder,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *service) ListCollections(ctx context.Context) ([]*Collection, error) {
	return s.repo.ListCollections(ctx)
}

func (s *service) CreateCollection(ctx context.Context, in CollectionInput) (*Collection, error) {
	if in.Name == "" || in.Slug == "" {
		return nil, apperr.Validationf("Name and slug are required")
	}
	c := &Collection{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Active:      true,
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := s.repo.CreateCollection(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCollection(ctx context.Context, id string) error {
	return s.repo.DeleteCollection(ctx, id)
}

func applyProductInput(p *Product, in ProductInput) {
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.ScentNotes != nil {
		p.ScentNotes = *in.ScentNotes
	}
	if in.WaxType != nil {
		p.WaxType = *in.WaxType
	}
	if in.BurnTime != nil {
		p.BurnTime = *in.BurnTime
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.CategoryID != nil {
		if id, err := uuid.Parse(*in.CategoryID); err == nil {
			p.CategoryID = &id
		} else {
			p.CategoryID = nil
		}
	}
	if in.CollectionID != nil {
		if id, err := uuid.Parse(*in.CollectionID); err == nil {
			p.CollectionID = &id
		} else {
			p.CollectionID = nil
		}
	}
	if in.CostCents != nil {
		p.CostCents = in.CostCents
	}
	if in.CompareAtPriceCents != nil {
		p.CompareAtPriceCents = in.CompareAtPriceCents
	}
	if in.ScheduledAt != nil {
		p.ScheduledAt = in.ScheduledAt
	}
	if in.IsLimitedEdition != nil {
		p.IsLimitedEdition = *in.IsLimitedEdition
	}
}
