package campaign

import (
	"context"
	"fmt"
	"strings"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/internal/modules/customer"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Recipients resolves a segment to its current members. Satisfied by
// the customer repository.
type Recipients interface {
	ListBySegment(ctx context.Context, segment customer.Segment) ([]*customer.Customer, error)
}

type Service struct {
	repo       Repository
	recipients Recipients
	audit      audit.Recorder
}

func NewService(repo Repository, recipients Recipients, rec audit.Recorder) *Service {
	return &Service{repo: repo, recipients: recipients, audit: rec}
}

func (s *Service) List(ctx context.Context) ([]Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Campaign, error) {
	return s.repo.GetCampaignByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Campaign, error) {
	c := &Campaign{}
	if err := applyInput(c, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "campaign", c.ID.String(), "create", "Created campaign "+c.Name, nil, c)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Campaign, error) {
	c, err := s.repo.GetCampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusDraft {
		return nil, apperr.Conflictf("sent campaigns cannot be edited")
	}
	before := *c
	if err := applyInput(c, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "campaign", id, "update", "Updated campaign "+c.Name, &before, c)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, "campaign", id, "delete", "Deleted campaign", nil, nil)
	return nil
}

// Send resolves the segment, snapshots the recipient count and flips
// the campaign to SENT. A campaign can be sent once.
func (s *Service) Send(ctx context.Context, id string) (*Campaign, error) {
	c, err := s.repo.GetCampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusDraft {
		return nil, apperr.Conflictf("campaign was already sent")
	}
	members, err := s.recipients.ListBySegment(ctx, customer.Segment(c.Segment))
	if err != nil {
		return nil, fmt.Errorf("resolve campaign recipients: %w", err)
	}
	if err := s.repo.MarkSent(ctx, id, len(members)); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "campaign", id, "send",
		fmt.Sprintf("Sent campaign %s to %d recipients", c.Name, len(members)), nil, nil)
	return s.repo.GetCampaignByID(ctx, id)
}

func applyInput(c *Campaign, in Input) error {
	if in.Name != "" {
		c.Name = strings.TrimSpace(in.Name)
	}
	if c.Name == "" {
		return apperr.Validationf("name is required")
	}
	if in.Segment != "" {
		c.Segment = in.Segment
	}
	if !customer.Segment(c.Segment).Valid() {
		return apperr.Validationf("unknown segment %q", c.Segment)
	}
	if in.Subject != "" {
		c.Subject = in.Subject
	}
	if c.Subject == "" {
		return apperr.Validationf("subject is required")
	}
	if in.Body != "" {
		c.Body = in.Body
	}
	if c.Body == "" {
		return apperr.Validationf("body is required")
	}
	if in.PromoCode != "" {
		c.PromoCode = strings.ToUpper(strings.TrimSpace(in.PromoCode))
	}
	return nil
}
