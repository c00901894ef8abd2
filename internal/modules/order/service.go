package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/internal/modules/promotion"
	"github.com/emberhollow/shop-api/internal/modules/settings"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

const defaultListLimit = 50

// PromoValidator resolves and applies a promo code to a cart.
type PromoValidator interface {
	Validate(ctx context.Context, code string, cart promotion.Cart) (promotion.Result, error)
}

// Scheduler receives post-checkout hooks, used to enqueue follow-up
// email automations. Implementations must not block on delivery.
type Scheduler interface {
	OrderPlaced(ctx context.Context, orderID uuid.UUID, customerID *uuid.UUID, email string)
}

type Service struct {
	repo      Repository
	settings  settings.Service
	promos    PromoValidator
	audit     audit.Recorder
	scheduler Scheduler
}

func NewService(repo Repository, st settings.Service, promos PromoValidator, rec audit.Recorder, sched Scheduler) *Service {
	return &Service{repo: repo, settings: st, promos: promos, audit: rec, scheduler: sched}
}

// Checkout validates the cart, prices it against current settings and
// promo rules, and places the order in a single transaction. A repeated
// idempotency key returns the previously created order.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput, idempotencyKey string) (*Order, error) {
	if err := validateCheckout(in); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	ids := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		if _, err := uuid.Parse(item.VariantID); err != nil {
			return nil, apperr.Validationf("invalid variant id %q", item.VariantID)
		}
		ids = append(ids, item.VariantID)
	}
	variants, err := s.repo.VariantsForCheckout(ctx, ids)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	items := make([]Item, 0, len(in.Items))
	for _, line := range in.Items {
		cv, ok := variants[line.VariantID]
		if !ok {
			return nil, apperr.Validationf("invalid variant: %s", line.VariantID)
		}
		if !cv.Sellable {
			return nil, apperr.Validationf("%s is not available for purchase", cv.ProductName)
		}
		if cv.StockOnHand < line.Quantity {
			return nil, apperr.Conflictf("insufficient stock for %s (%s)", cv.ProductName, cv.VariantLabel)
		}
		lineTotal := cv.UnitPriceCents * int64(line.Quantity)
		subtotal += lineTotal
		variantID := cv.VariantID
		items = append(items, Item{
			VariantID:      &variantID,
			ProductName:    cv.ProductName,
			VariantLabel:   cv.VariantLabel,
			Quantity:       line.Quantity,
			UnitPriceCents: cv.UnitPriceCents,
			LineTotalCents: lineTotal,
		})
	}

	params := PricingParams{}
	if params.ShippingFlatCents, err = s.settings.ShippingFlatCents(ctx); err != nil {
		return nil, fmt.Errorf("read shipping rate: %w", err)
	}
	if params.FreeShippingThresholdCents, err = s.settings.FreeShippingThresholdCents(ctx); err != nil {
		return nil, fmt.Errorf("read free shipping threshold: %w", err)
	}
	if params.TaxRatePercent, err = s.settings.TaxRatePercent(ctx); err != nil {
		return nil, fmt.Errorf("read tax rate: %w", err)
	}

	promoCode := ""
	if in.PromoCode != "" {
		res, err := s.promos.Validate(ctx, in.PromoCode, promotion.Cart{
			SubtotalCents: subtotal,
			ShippingCents: params.ShippingFlatCents,
			CustomerEmail: in.Email,
		})
		if err != nil {
			return nil, err
		}
		params.DiscountCents = res.DiscountCents
		params.FreeShipping = res.FreeShipping
		promoCode = res.Promo.Code
	}

	pricing := ComputePricing(subtotal, params)

	o := &Order{
		Status:         StatusPending,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Name:           strings.TrimSpace(in.Name),
		Address1:       in.Address1,
		Address2:       in.Address2,
		City:           in.City,
		State:          in.State,
		PostalCode:     in.PostalCode,
		Country:        orDefault(in.Country, "US"),
		SubtotalCents:  pricing.SubtotalCents,
		ShippingCents:  pricing.ShippingCents,
		DiscountCents:  pricing.DiscountCents,
		TaxCents:       pricing.TaxCents,
		TotalCents:     pricing.TotalCents,
		PromoCode:      promoCode,
		IdempotencyKey: idempotencyKey,
		Items:          items,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "order", o.ID.String(), "create",
		fmt.Sprintf("Order placed by %s, total %d cents", o.Email, o.TotalCents), nil, o)
	if s.scheduler != nil {
		s.scheduler.OrderPlaced(ctx, o.ID, o.CustomerID, o.Email)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validationf("invalid order status %q", f.Status)
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = defaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.ListOrders(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// UpdateStatus moves an order through the fulfillment state machine.
// Cancelling returns every item to stock.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, apperr.Validationf("invalid order status %q", next)
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return o, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, apperr.Validationf("cannot move order from %s to %s", o.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	if next == StatusCancelled {
		if err := s.repo.RestockItems(ctx, o); err != nil {
			return nil, err
		}
	}

	desc := fmt.Sprintf("Status changed from %s to %s", o.Status, next)
	if err := s.repo.AppendEvent(ctx, id, "status_changed", desc, ""); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "order", id, "status_change", desc,
		map[string]Status{"status": o.Status}, map[string]Status{"status": next})

	return s.repo.GetOrderByID(ctx, id)
}

// SetTracking records shipment tracking and moves the order to SHIPPED
// when its current status allows it.
func (s *Service) SetTracking(ctx context.Context, id, trackingNumber, carrier string) (*Order, error) {
	if trackingNumber == "" {
		return nil, apperr.Validationf("tracking number is required")
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetTracking(ctx, id, trackingNumber, carrier); err != nil {
		return nil, err
	}
	desc := "Tracking added: " + trackingNumber
	if carrier != "" {
		desc += " (" + carrier + ")"
	}
	if err := s.repo.AppendEvent(ctx, id, "tracking_added", desc, ""); err != nil {
		return nil, err
	}
	if o.Status.CanTransitionTo(StatusShipped) {
		return s.UpdateStatus(ctx, id, StatusShipped)
	}
	return s.repo.GetOrderByID(ctx, id)
}

// Refund records a partial or full refund. A zero amount refunds the
// full remaining total. The refunded amount never exceeds the order
// total; a full refund moves the order to REFUNDED.
func (s *Service) Refund(ctx context.Context, id string, amountCents int64) (*Order, error) {
	if amountCents < 0 {
		return nil, apperr.Validationf("refund amount must not be negative")
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	remaining := o.TotalCents - o.RefundedCents
	if remaining <= 0 {
		return nil, apperr.Validationf("order is already fully refunded")
	}
	if amountCents == 0 || amountCents > remaining {
		amountCents = remaining
	}

	newStatus := o.Status
	if o.RefundedCents+amountCents >= o.TotalCents {
		newStatus = StatusRefunded
	}
	if err := s.repo.AddRefund(ctx, id, amountCents, newStatus); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Refunded %d cents", amountCents)
	if newStatus == StatusRefunded {
		desc += " (fully refunded)"
	}
	if err := s.repo.AppendEvent(ctx, id, "refund", desc, ""); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "order", id, "refund", desc,
		map[string]int64{"refunded_cents": o.RefundedCents},
		map[string]int64{"refunded_cents": o.RefundedCents + amountCents})

	return s.repo.GetOrderByID(ctx, id)
}

func (s *Service) AddNote(ctx context.Context, id, content, author string) (*Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validationf("note content is required")
	}
	if _, err := s.repo.GetOrderByID(ctx, id); err != nil {
		return nil, err
	}
	if author == "" {
		author = "Admin"
	}
	return s.repo.AddNote(ctx, id, content, author)
}

func validateCheckout(in CheckoutInput) error {
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		return apperr.Validationf("a valid email is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validationf("name is required")
	}
	if in.Address1 == "" || in.City == "" || in.State == "" || in.PostalCode == "" {
		return apperr.Validationf("a complete shipping address is required")
	}
	if len(in.Items) == 0 {
		return apperr.Validationf("cart cannot be empty")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return apperr.Validationf("item quantity must be positive")
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
