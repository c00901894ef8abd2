package review

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/internal/modules/promotion"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

const (
	incentivePercent   = 10
	incentiveValidDays = 30
)

// PromoMinter creates the thank-you coupon issued after a verified
// review. Satisfied by the promotion repository.
type PromoMinter interface {
	CreatePromotion(ctx context.Context, p *promotion.Promotion) error
}

type Service struct {
	repo   Repository
	promos PromoMinter
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(repo Repository, promos PromoMinter, rec audit.Recorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, promos: promos, audit: rec, logger: logger}
}

// Submit records a review. A reviewer who actually bought the product
// gets a verified badge and a single-use discount code; the coupon is
// best effort and never fails the submission.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Review, error) {
	productID, err := uuid.Parse(in.ProductID)
	if err != nil {
		return nil, apperr.Validationf("invalid product id")
	}
	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validationf("a valid email is required")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, apperr.Validationf("name is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.Validationf("rating must be between 1 and 5")
	}

	already, err := s.repo.HasReviewed(ctx, email, in.ProductID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, apperr.Conflictf("you have already reviewed this product")
	}

	rv := &Review{
		ProductID:     productID,
		CustomerEmail: email,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Rating:        in.Rating,
		Title:         strings.TrimSpace(in.Title),
		Body:          strings.TrimSpace(in.Body),
	}

	purchased, orderID, err := s.repo.HasPurchased(ctx, email, in.ProductID)
	if err != nil {
		return nil, err
	}
	if purchased {
		rv.Verified = true
		if id, err := uuid.Parse(orderID); err == nil {
			rv.OrderID = &id
		}
		rv.IncentiveCouponCode = s.mintIncentive(ctx, email)
	}

	if err := s.repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// mintIncentive creates the reviewer's one-off discount code. Returns
// "" when minting fails.
func (s *Service) mintIncentive(ctx context.Context, email string) string {
	code := "REVIEW" + randomSuffix(6)
	one := 1
	ends := time.Now().AddDate(0, 0, incentiveValidDays)
	p := &promotion.Promotion{
		Code:          code,
		Description:   "Thank-you discount for a verified review",
		DiscountType:  promotion.TypePercentage,
		DiscountValue: incentivePercent,
		MaxUsageCount: &one,
		CustomerEmail: email,
		EndsAt:        &ends,
		Active:        true,
	}
	if err := s.promos.CreatePromotion(ctx, p); err != nil {
		s.logger.Warn("failed to mint review incentive coupon", zap.Error(err))
		return ""
	}
	return code
}

func (s *Service) ListForProduct(ctx context.Context, productID string) ([]Review, Summary, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, Summary{}, apperr.Validationf("invalid product id")
	}
	return s.repo.ListApprovedByProduct(ctx, productID)
}

func (s *Service) ListAll(ctx context.Context, approved *bool) ([]Review, error) {
	return s.repo.ListAll(ctx, approved)
}

func (s *Service) SetApproved(ctx context.Context, id string, approved bool) (*Review, error) {
	if err := s.repo.SetApproved(ctx, id, approved); err != nil {
		return nil, err
	}
	action, desc := "reject", "Review rejected"
	if approved {
		action, desc = "approve", "Review approved"
	}
	s.audit.Record(ctx, "review", id, action, desc, nil, nil)
	return s.repo.GetReviewByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	before, err := s.repo.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, "review", id, "delete", "Deleted review", before, nil)
	return nil
}

const suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomSuffix(n int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(suffixAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			idx = big.NewInt(int64(i % len(suffixAlphabet)))
		}
		b.WriteByte(suffixAlphabet[idx.Int64()])
	}
	return b.String()
}
