package settings

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Service defines the settings business logic.
type Service interface {
	// GetAll returns every known key, "" when unset.
	GetAll(ctx context.Context) (map[string]string, error)

	// Update upserts the provided pairs. Unknown keys are rejected.
	Update(ctx context.Context, values map[string]string) error

	// ShippingFlatCents reads the flat shipping rate with its default.
	ShippingFlatCents(ctx context.Context) (int64, error)

	// FreeShippingThresholdCents reads the free-shipping threshold;
	// 0 means no threshold configured.
	FreeShippingThresholdCents(ctx context.Context) (int64, error)

	// TaxRatePercent reads the configured tax rate; 0 when unset.
	TaxRatePercent(ctx context.Context) (int64, error)
}

type service struct {
	repo  Repository
	audit audit.Recorder
}

// NewService creates a new settings service.
func NewService(repo Repository, rec audit.Recorder) Service {
	return &service{repo: repo, audit: rec}
}

func (s *service) GetAll(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string, len(KnownKeys))
	for _, key := range KnownKeys {
		value, err := s.repo.GetSetting(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read setting %s: %w", key, err)
		}
		result[key] = value
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return apperr.Validationf("no settings provided")
	}
	var touched []string
	for key, value := range values {
		if !knownKey(key) {
			return apperr.Validationf("unknown setting: %s", key)
		}
		if err := s.repo.SetSetting(ctx, key, value); err != nil {
			return fmt.Errorf("write setting %s: %w", key, err)
		}
		touched = append(touched, key)
	}
	sort.Strings(touched)
	s.audit.Record(ctx, "settings", "global", "update",
		"Updated settings: "+strings.Join(touched, ", "), nil, nil)
	return nil
}

func (s *service) ShippingFlatCents(ctx context.Context) (int64, error) {
	return s.intSetting(ctx, "shippingFlatCents", DefaultShippingFlatCents)
}

func (s *service) FreeShippingThresholdCents(ctx context.Context) (int64, error) {
	return s.intSetting(ctx, "freeShippingThresholdCents", 0)
}

func (s *service) TaxRatePercent(ctx context.Context) (int64, error) {
	return s.intSetting(ctx, "taxRatePercent", 0)
}

func (s *service) intSetting(ctx context.Context, key string, fallback int64) (int64, error) {
	raw, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

func knownKey(key string) bool {
	for _, k := range KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}
