package inventory

import (
	"context"
	"fmt"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

const defaultAdjustmentLimit = 100

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, rec audit.Recorder) *Service {
	return &Service{repo: repo, audit: rec}
}

// Adjust validates and applies a manual stock change, appending a
// ledger entry and an audit record.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*Adjustment, error) {
	if in.VariantID == "" {
		return nil, apperr.Validationf("variant_id is required")
	}
	if in.Change == 0 {
		return nil, apperr.Validationf("change must not be zero")
	}
	reason := Reason(in.Reason)
	if !reason.Valid() {
		return nil, apperr.Validationf("invalid adjustment reason %q", in.Reason)
	}

	adj, err := s.repo.Adjust(ctx, in.VariantID, in.Change, reason, in.Note, "")
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Stock %+d (%s): %d -> %d", adj.Change, adj.Reason, adj.PreviousOnHand, adj.NewOnHand)
	s.audit.Record(ctx, "inventory", in.VariantID, "adjust", desc, nil, adj)
	return adj, nil
}

func (s *Service) Levels(ctx context.Context) ([]Level, error) {
	return s.repo.ListLevels(ctx)
}

func (s *Service) LowStock(ctx context.Context, threshold *int) ([]Level, error) {
	return s.repo.ListLowStock(ctx, threshold)
}

func (s *Service) Adjustments(ctx context.Context, variantID string, limit int) ([]Adjustment, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultAdjustmentLimit
	}
	return s.repo.ListAdjustments(ctx, variantID, limit)
}
