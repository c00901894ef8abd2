package reports

import "context"

const (
	defaultPeriodDays   = 30
	maxPeriodDays       = 365
	defaultTopProducts  = 10
	defaultActivitySize = 20
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func clampDays(days int) int {
	if days <= 0 {
		return defaultPeriodDays
	}
	if days > maxPeriodDays {
		return maxPeriodDays
	}
	return days
}

func (s *Service) KPIs(ctx context.Context, days int) (*KPIs, error) {
	return s.repo.KPIs(ctx, clampDays(days))
}

func (s *Service) RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error) {
	return s.repo.RevenueByDay(ctx, clampDays(days))
}

func (s *Service) TopProducts(ctx context.Context, days, limit int) ([]TopProduct, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultTopProducts
	}
	return s.repo.TopProducts(ctx, clampDays(days), limit)
}

func (s *Service) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultActivitySize
	}
	return s.repo.RecentActivity(ctx, limit)
}
