package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

type memRepo map[string]string

func (m memRepo) GetSetting(_ context.Context, key string) (string, error) { return m[key], nil }
func (m memRepo) SetSetting(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func TestIntSettingDefaults(t *testing.T) {
	repo := memRepo{}
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	n, err := svc.ShippingFlatCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultShippingFlatCents), n)

	n, err = svc.FreeShippingThresholdCents(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.TaxRatePercent(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIntSettingReadsStoredValue(t *testing.T) {
	repo := memRepo{
		"shippingFlatCents":          "1200",
		"freeShippingThresholdCents": "5000",
		"taxRatePercent":             "8",
	}
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	n, err := svc.ShippingFlatCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), n)

	n, err = svc.FreeShippingThresholdCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), n)

	n, err = svc.TaxRatePercent(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
}

func TestIntSettingGarbageFallsBack(t *testing.T) {
	repo := memRepo{"shippingFlatCents": "not a number"}
	svc := NewService(repo, audit.Nop())

	n, err := svc.ShippingFlatCents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultShippingFlatCents), n)
}

func TestUpdateRejectsUnknownKey(t *testing.T) {
	repo := memRepo{}
	svc := NewService(repo, audit.Nop())

	err := svc.Update(context.Background(), map[string]string{"paymentGateway": "stripe"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Empty(t, repo)
}

func TestUpdateAndGetAll(t *testing.T) {
	repo := memRepo{}
	svc := NewService(repo, audit.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, map[string]string{
		"storeName":         "Ember Hollow Candle Co.",
		"shippingFlatCents": "900",
	}))

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ember Hollow Candle Co.", all["storeName"])
	assert.Equal(t, "900", all["shippingFlatCents"])
	assert.Equal(t, "", all["taxRatePercent"])
	assert.Len(t, all, len(KnownKeys))
}
