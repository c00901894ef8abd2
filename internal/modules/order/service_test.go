package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/internal/modules/promotion"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	variants  map[string]checkoutVariant
	stock     map[string]int
	orders    map[string]*Order
	byIdemKey map[string]*Order
	customers map[string]*custStats
	events    []string
	restocked bool
	createCnt int
}

// custStats mirrors the per-email aggregate bump CreateOrder performs.
type custStats struct {
	id         uuid.UUID
	orderCount int
	spentCents int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		variants:  map[string]checkoutVariant{},
		stock:     map[string]int{},
		orders:    map[string]*Order{},
		byIdemKey: map[string]*Order{},
		customers: map[string]*custStats{},
	}
}

func (f *fakeRepo) addVariant(price int64, stock int, sellable bool) string {
	id := uuid.New()
	f.variants[id.String()] = checkoutVariant{
		VariantID:      id,
		ProductName:    "Test Candle",
		VariantLabel:   "Amber Jar - 8oz - Cotton Wick",
		UnitPriceCents: price,
		StockOnHand:    stock,
		Sellable:       sellable,
	}
	f.stock[id.String()] = stock
	return id.String()
}

func (f *fakeRepo) VariantsForCheckout(_ context.Context, ids []string) (map[string]checkoutVariant, error) {
	out := map[string]checkoutVariant{}
	for _, id := range ids {
		if cv, ok := f.variants[id]; ok {
			cv.StockOnHand = f.stock[id]
			out[id] = cv
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByIdempotencyKey(_ context.Context, key string) (*Order, error) {
	return f.byIdemKey[key], nil
}

func (f *fakeRepo) CreateOrder(_ context.Context, o *Order) error {
	f.createCnt++
	o.ID = uuid.New()
	for _, item := range o.Items {
		key := item.VariantID.String()
		if f.stock[key] < item.Quantity {
			return apperr.Conflictf("insufficient stock")
		}
		f.stock[key] -= item.Quantity
	}
	c, ok := f.customers[o.Email]
	if !ok {
		c = &custStats{id: uuid.New()}
		f.customers[o.Email] = c
	}
	c.orderCount++
	c.spentCents += o.TotalCents
	o.CustomerID = &c.id
	f.orders[o.ID.String()] = o
	if o.IdempotencyKey != "" {
		f.byIdemKey[o.IdempotencyKey] = o
	}
	return nil
}

func (f *fakeRepo) ListOrders(_ context.Context, _ ListFilter) ([]Order, error) { return nil, nil }

func (f *fakeRepo) GetOrderByID(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("order not found")
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	f.orders[id].Status = status
	return nil
}

func (f *fakeRepo) SetTracking(_ context.Context, id, tn, carrier string) error {
	f.orders[id].TrackingNumber = tn
	f.orders[id].Carrier = carrier
	return nil
}

func (f *fakeRepo) AddRefund(_ context.Context, id string, amount int64, newStatus Status) error {
	f.orders[id].RefundedCents += amount
	f.orders[id].Status = newStatus
	return nil
}

func (f *fakeRepo) RestockItems(_ context.Context, o *Order) error {
	f.restocked = true
	for _, item := range o.Items {
		f.stock[item.VariantID.String()] += item.Quantity
	}
	return nil
}

func (f *fakeRepo) AppendEvent(_ context.Context, _, eventType, _, _ string) error {
	f.events = append(f.events, eventType)
	return nil
}

func (f *fakeRepo) AddNote(_ context.Context, orderID, content, author string) (*Note, error) {
	return &Note{ID: uuid.New(), Content: content, AuthorName: author}, nil
}

// fakeSettings returns fixed store configuration.
type fakeSettings struct {
	shipping, threshold, taxRate int64
}

func (f fakeSettings) GetAll(context.Context) (map[string]string, error) { return nil, nil }
func (f fakeSettings) Update(context.Context, map[string]string) error   { return nil }
func (f fakeSettings) ShippingFlatCents(context.Context) (int64, error)  { return f.shipping, nil }
func (f fakeSettings) FreeShippingThresholdCents(context.Context) (int64, error) {
	return f.threshold, nil
}
func (f fakeSettings) TaxRatePercent(context.Context) (int64, error) { return f.taxRate, nil }

// fakePromos returns a canned evaluation result.
type fakePromos struct {
	result promotion.Result
	err    error
}

func (f fakePromos) Validate(_ context.Context, code string, _ promotion.Cart) (promotion.Result, error) {
	if f.err != nil {
		return promotion.Result{}, f.err
	}
	return f.result, nil
}

func newTestService(repo *fakeRepo, st fakeSettings, promos PromoValidator) *Service {
	return NewService(repo, st, promos, audit.Nop(), nil)
}

func validInput(variantID string, qty int) CheckoutInput {
	return CheckoutInput{
		Email:      "jordan@example.com",
		Name:       "Jordan Hale",
		Address1:   "12 Birch Lane",
		City:       "Asheville",
		State:      "NC",
		PostalCode: "28801",
		Items:      []CheckoutItem{{VariantID: variantID, Quantity: qty}},
	}
}

func TestCheckoutFlatShippingTotal(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1800, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})

	o, err := svc.Checkout(context.Background(), validInput(v1, 2), "")
	require.NoError(t, err)

	assert.Equal(t, int64(3600), o.SubtotalCents)
	assert.Equal(t, int64(800), o.ShippingCents)
	assert.Equal(t, int64(4400), o.TotalCents)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 8, repo.stock[v1])
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Test Candle", o.Items[0].ProductName)
	assert.Equal(t, int64(1800), o.Items[0].UnitPriceCents)
}

func TestCheckoutEmptyCart(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})

	in := validInput(uuid.NewString(), 1)
	in.Items = nil
	_, err := svc.Checkout(context.Background(), in, "")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Contains(t, err.Error(), "cart cannot be empty")
	assert.Zero(t, repo.createCnt)
}

func TestCheckoutUnknownVariant(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})

	missing := uuid.NewString()
	_, err := svc.Checkout(context.Background(), validInput(missing, 1), "")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Contains(t, err.Error(), missing)
	assert.Zero(t, repo.createCnt)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1800, 1, true)
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})

	_, err := svc.Checkout(context.Background(), validInput(v1, 2), "")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Zero(t, repo.createCnt)
}

func TestCheckoutInactiveProduct(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1800, 10, false)
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})

	_, err := svc.Checkout(context.Background(), validInput(v1, 1), "")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestCheckoutIdempotencyReplay(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1800, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})

	first, err := svc.Checkout(context.Background(), validInput(v1, 1), "key-1")
	require.NoError(t, err)

	second, err := svc.Checkout(context.Background(), validInput(v1, 1), "key-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.createCnt)
	assert.Equal(t, 9, repo.stock[v1])
}

func TestCheckoutWithPercentagePromo(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(2000, 10, true)
	promo := &promotion.Promotion{Code: "SAVE10", DiscountType: promotion.TypePercentage, DiscountValue: 10}
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{
		result: promotion.Result{Promo: promo, DiscountCents: 400},
	})

	in := validInput(v1, 2)
	in.PromoCode = "save10"
	o, err := svc.Checkout(context.Background(), in, "")
	require.NoError(t, err)

	assert.Equal(t, int64(400), o.DiscountCents)
	assert.Equal(t, "SAVE10", o.PromoCode)
	assert.Equal(t, int64(4000-400+800), o.TotalCents)
}

func TestCheckoutRejectsInvalidPromo(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(2000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{
		err: apperr.Validationf("promo code has expired"),
	})

	in := validInput(v1, 1)
	in.PromoCode = "OLD"
	_, err := svc.Checkout(context.Background(), in, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
	assert.Zero(t, repo.createCnt)
}

func placeOrder(t *testing.T, svc *Service, repo *fakeRepo, v1 string) *Order {
	t.Helper()
	o, err := svc.Checkout(context.Background(), validInput(v1, 2), "")
	require.NoError(t, err)
	return o
}

func TestRepeatCheckoutAccumulatesCustomerTotals(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})

	first := placeOrder(t, svc, repo, v1)  // total 2000
	second := placeOrder(t, svc, repo, v1) // total 2000

	require.NotNil(t, first.CustomerID)
	require.NotNil(t, second.CustomerID)
	assert.Equal(t, *first.CustomerID, *second.CustomerID)

	c := repo.customers["jordan@example.com"]
	require.NotNil(t, c)
	assert.Equal(t, 2, c.orderCount)
	assert.Equal(t, int64(4000), c.spentCents)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})
	o := placeOrder(t, svc, repo, v1)

	_, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusDelivered)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestCancelRestocksItems(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})
	o := placeOrder(t, svc, repo, v1)
	require.Equal(t, 8, repo.stock[v1])

	updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, updated.Status)
	assert.True(t, repo.restocked)
	assert.Equal(t, 10, repo.stock[v1])
	assert.Contains(t, repo.events, "status_changed")
}

func TestRefundClampAndTerminal(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})
	o := placeOrder(t, svc, repo, v1) // total 2000

	_, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusPaid)
	require.NoError(t, err)

	partial, err := svc.Refund(context.Background(), o.ID.String(), 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), partial.RefundedCents)
	assert.Equal(t, StatusPaid, partial.Status)

	// Over-large refund clamps to the remainder and forces REFUNDED.
	full, err := svc.Refund(context.Background(), o.ID.String(), 99999)
	require.NoError(t, err)
	assert.Equal(t, o.TotalCents, full.RefundedCents)
	assert.Equal(t, StatusRefunded, full.Status)

	_, err = svc.Refund(context.Background(), o.ID.String(), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fully refunded")
}

func TestRefundZeroAmountRefundsRemainder(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})
	o := placeOrder(t, svc, repo, v1)

	_, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusPaid)
	require.NoError(t, err)

	full, err := svc.Refund(context.Background(), o.ID.String(), 0)
	require.NoError(t, err)
	assert.Equal(t, o.TotalCents, full.RefundedCents)
	assert.Equal(t, StatusRefunded, full.Status)
}

func TestRefundAllowedForPendingOrder(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})
	o := placeOrder(t, svc, repo, v1)

	partial, err := svc.Refund(context.Background(), o.ID.String(), 100)

	require.NoError(t, err)
	assert.Equal(t, int64(100), partial.RefundedCents)
	assert.Equal(t, StatusPending, partial.Status)
}

func TestCancelShippedOrderRestocks(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 10, true)
	svc := newTestService(repo, fakeSettings{shipping: 0}, fakePromos{})
	o := placeOrder(t, svc, repo, v1)

	for _, next := range []Status{StatusPaid, StatusShipped} {
		_, err := svc.UpdateStatus(context.Background(), o.ID.String(), next)
		require.NoError(t, err)
	}

	updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.Equal(t, 10, repo.stock[v1])
}
