package customer

import (
	"context"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Service defines customer business logic for the admin back office.
type Service interface {
	List(ctx context.Context) ([]*Customer, error)
	Get(ctx context.Context, id string) (*Detail, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Customer, error)

	// Segment returns the customers in a named cohort.
	Segment(ctx context.Context, segment string) ([]*Customer, error)

	// SegmentCounts returns the size of every cohort.
	SegmentCounts(ctx context.Context) (map[Segment]int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *service) Get(ctx context.Context, id string) (*Detail, error) {
	c, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrderSummaries(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*OrderSummary{}
	}
	return &Detail{Customer: *c, Orders: orders}, nil
}

func (s *service) Update(ctx context.Context, id string, in UpdateInput) (*Customer, error) {
	c, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address1 != nil {
		c.Address1 = *in.Address1
	}
	if in.Address2 != nil {
		c.Address2 = *in.Address2
	}
	if in.City != nil {
		c.City = *in.City
	}
	if in.State != nil {
		c.State = *in.State
	}
	if in.PostalCode != nil {
		c.PostalCode = *in.PostalCode
	}
	if in.Country != nil {
		c.Country = *in.Country
	}
	if in.Tags != nil {
		c.Tags = *in.Tags
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Segment(ctx context.Context, segment string) ([]*Customer, error) {
	seg := Segment(segment)
	if segment == "" {
		seg = SegmentAll
	}
	if !seg.Valid() {
		return nil, apperr.Validationf("Unknown segment: %s", segment)
	}
	return s.repo.ListBySegment(ctx, seg)
}

func (s *service) SegmentCounts(ctx context.Context) (map[Segment]int, error) {
	counts := make(map[Segment]int, len(Segments))
	for _, seg := range Segments {
		customers, err := s.repo.ListBySegment(ctx, seg)
		if err != nil {
			return nil, err
		}
		counts[seg] = len(customers)
	}
	return counts, nil
}
