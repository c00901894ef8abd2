package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, rec audit.Recorder) *Service {
	return &Service{repo: repo, audit: rec}
}

func (s *Service) List(ctx context.Context) ([]Promotion, error) {
	return s.repo.ListPromotions(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Promotion, error) {
	return s.repo.GetPromotionByID(ctx, id)
}

// Validate looks up a code and applies it to the given cart figures.
// Usage counting happens at checkout, not here.
func (s *Service) Validate(ctx context.Context, code string, cart Cart) (Result, error) {
	p, err := s.repo.GetPromotionByCode(ctx, normalizeCode(code))
	if err != nil {
		return Result{}, err
	}
	if p.Active && p.AppliesToProductID != nil {
		stock, err := s.repo.ProductStock(ctx, p.AppliesToProductID.String())
		if err != nil {
			return Result{}, err
		}
		// A promo tied to a sold-out product stops itself.
		if stock <= 0 {
			if err := s.repo.Deactivate(ctx, p.ID.String()); err == nil {
				s.audit.Record(ctx, "promotion", p.ID.String(), "auto_deactivate",
					"Deactivated promo code "+p.Code+": product out of stock", nil, nil)
			}
			return Result{}, apperr.Validationf("promo code is no longer available")
		}
	}
	return Evaluate(p, cart, time.Now())
}

func (s *Service) Create(ctx context.Context, in Input) (*Promotion, error) {
	p, err := promotionFromInput(&Promotion{Active: true}, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePromotion(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "promotion", p.ID.String(), "create", "Created promo code "+p.Code, nil, p)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Promotion, error) {
	before, err := s.repo.GetPromotionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := *before
	updated, err := promotionFromInput(&p, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePromotion(ctx, updated); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "promotion", id, "update", "Updated promo code "+updated.Code, before, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	before, err := s.repo.GetPromotionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, "promotion", id, "delete", "Deleted promo code "+before.Code, before, nil)
	return nil
}

func (s *Service) Performance(ctx context.Context) ([]Performance, error) {
	return s.repo.PromoPerformance(ctx)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func promotionFromInput(p *Promotion, in Input) (*Promotion, error) {
	if in.Code != "" {
		p.Code = normalizeCode(in.Code)
	}
	if p.Code == "" {
		return nil, apperr.Validationf("code is required")
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.DiscountType != "" {
		p.DiscountType = DiscountType(in.DiscountType)
	}
	switch p.DiscountType {
	case TypePercentage, TypeFixedAmount, TypeFreeShipping:
	default:
		return nil, apperr.Validationf("invalid discount type %q", p.DiscountType)
	}
	if in.DiscountValue != nil {
		p.DiscountValue = *in.DiscountValue
	}
	if p.DiscountType == TypePercentage && (p.DiscountValue < 0 || p.DiscountValue > 100) {
		return nil, apperr.Validationf("percentage discount must be between 0 and 100")
	}
	if p.DiscountValue < 0 {
		return nil, apperr.Validationf("discount value must not be negative")
	}
	if in.MinSpendCents != nil {
		p.MinSpendCents = in.MinSpendCents
	}
	if in.MaxUsageCount != nil {
		p.MaxUsageCount = in.MaxUsageCount
	}
	if in.AppliesToProductID != nil {
		id, err := uuid.Parse(*in.AppliesToProductID)
		if err != nil {
			return nil, apperr.Validationf("invalid product id")
		}
		p.AppliesToProductID = &id
	}
	if in.AppliesToCollectionID != nil {
		id, err := uuid.Parse(*in.AppliesToCollectionID)
		if err != nil {
			return nil, apperr.Validationf("invalid collection id")
		}
		p.AppliesToCollectionID = &id
	}
	if in.CustomerEmail != "" {
		p.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	}
	if in.StartsAt != nil {
		p.StartsAt = in.StartsAt
	}
	if in.EndsAt != nil {
		p.EndsAt = in.EndsAt
	}
	if p.StartsAt != nil && p.EndsAt != nil && p.EndsAt.Before(*p.StartsAt) {
		return nil, apperr.Validationf("ends_at must be after starts_at")
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	return p, nil
}
