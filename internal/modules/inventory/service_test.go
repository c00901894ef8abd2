package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

// fakeRepo applies adjustments against an in-memory stock map,
// enforcing the same invariants as the SQL implementation.
type fakeRepo struct {
	stock  map[string]int
	ledger []Adjustment
}

func (f *fakeRepo) Adjust(_ context.Context, variantID string, change int, reason Reason, note, adjustedBy string) (*Adjustment, error) {
	previous, ok := f.stock[variantID]
	if !ok {
		return nil, apperr.NotFoundf("variant not found")
	}
	newOnHand := previous + change
	if newOnHand < 0 && reason != ReasonCorrection {
		return nil, apperr.Validationf("adjustment would take stock below zero")
	}
	f.stock[variantID] = newOnHand
	adj := Adjustment{
		ID:             uuid.New(),
		Change:         change,
		Reason:         reason,
		Note:           note,
		PreviousOnHand: previous,
		NewOnHand:      newOnHand,
	}
	f.ledger = append(f.ledger, adj)
	return &adj, nil
}

func (f *fakeRepo) ListLevels(context.Context) ([]Level, error) { return nil, nil }
func (f *fakeRepo) ListLowStock(context.Context, *int) ([]Level, error) {
	return nil, nil
}
func (f *fakeRepo) ListAdjustments(context.Context, string, int) ([]Adjustment, error) {
	return f.ledger, nil
}

func newTestService(stock map[string]int) (*Service, *fakeRepo) {
	repo := &fakeRepo{stock: stock}
	return NewService(repo, audit.Nop()), repo
}

func TestAdjustSale(t *testing.T) {
	v1 := uuid.NewString()
	svc, repo := newTestService(map[string]int{v1: 10})

	adj, err := svc.Adjust(context.Background(), AdjustInput{
		VariantID: v1, Change: -3, Reason: "SALE",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, adj.PreviousOnHand)
	assert.Equal(t, 7, adj.NewOnHand)
	assert.Equal(t, adj.PreviousOnHand+adj.Change, adj.NewOnHand)
	assert.Equal(t, 7, repo.stock[v1])
}

func TestAdjustRejectsZeroChange(t *testing.T) {
	v1 := uuid.NewString()
	svc, _ := newTestService(map[string]int{v1: 10})

	_, err := svc.Adjust(context.Background(), AdjustInput{VariantID: v1, Change: 0, Reason: "RESTOCK"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestAdjustRejectsUnknownReason(t *testing.T) {
	v1 := uuid.NewString()
	svc, _ := newTestService(map[string]int{v1: 10})

	_, err := svc.Adjust(context.Background(), AdjustInput{VariantID: v1, Change: 5, Reason: "SHRINKAGE"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestAdjustUnknownVariant(t *testing.T) {
	svc, _ := newTestService(map[string]int{})

	_, err := svc.Adjust(context.Background(), AdjustInput{VariantID: uuid.NewString(), Change: 5, Reason: "RESTOCK"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestAdjustRejectsNegativeStock(t *testing.T) {
	v1 := uuid.NewString()
	svc, repo := newTestService(map[string]int{v1: 2})

	_, err := svc.Adjust(context.Background(), AdjustInput{VariantID: v1, Change: -3, Reason: "DAMAGE"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Equal(t, 2, repo.stock[v1])
}

func TestCorrectionMayGoNegative(t *testing.T) {
	v1 := uuid.NewString()
	svc, repo := newTestService(map[string]int{v1: 2})

	adj, err := svc.Adjust(context.Background(), AdjustInput{VariantID: v1, Change: -3, Reason: "CORRECTION"})

	require.NoError(t, err)
	assert.Equal(t, -1, adj.NewOnHand)
	assert.Equal(t, -1, repo.stock[v1])
}

func TestReasonValid(t *testing.T) {
	for _, r := range []Reason{ReasonRestock, ReasonSale, ReasonDamage, ReasonCorrection, ReasonReturn, ReasonInitial} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Reason("").Valid())
	assert.False(t, Reason("sale").Valid())
}
