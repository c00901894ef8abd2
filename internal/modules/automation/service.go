package automation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

const defaultSendLimit = 100

type Service struct {
	repo   Repository
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(repo Repository, rec audit.Recorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, audit: rec, logger: logger}
}

// OrderPlaced schedules a send for every active template on the
// ORDER_PLACED trigger. Failures are logged, never propagated: a
// broken automation must not break checkout.
func (s *Service) OrderPlaced(ctx context.Context, orderID uuid.UUID, customerID *uuid.UUID, email string) {
	templates, err := s.repo.ListActiveByTrigger(ctx, TriggerOrderPlaced)
	if err != nil {
		s.logger.Warn("failed to load order-placed automations", zap.Error(err))
		return
	}
	for _, t := range templates {
		send := &Send{
			TemplateID:    t.ID,
			OrderID:       &orderID,
			CustomerID:    customerID,
			CustomerEmail: email,
			ScheduledFor:  time.Now().Add(time.Duration(t.DelayHours) * time.Hour),
		}
		if err := s.repo.CreateSend(ctx, send); err != nil {
			s.logger.Warn("failed to schedule automation send",
				zap.String("template", t.Name), zap.Error(err))
		}
	}
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*Template, error) {
	return s.repo.GetTemplateByID(ctx, id)
}

func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (*Template, error) {
	t := &Template{Active: true}
	if err := applyTemplateInput(t, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "automation", t.ID.String(), "create", "Created automation "+t.Name, nil, t)
	return t, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, in TemplateInput) (*Template, error) {
	t, err := s.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *t
	if err := applyTemplateInput(t, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTemplate(ctx, t); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "automation", id, "update", "Updated automation "+t.Name, &before, t)
	return t, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	before, err := s.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, "automation", id, "delete", "Deleted automation "+before.Name, before, nil)
	return nil
}

func (s *Service) ListSends(ctx context.Context, templateID string, limit int) ([]Send, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultSendLimit
	}
	return s.repo.ListSends(ctx, templateID, limit)
}

func applyTemplateInput(t *Template, in TemplateInput) error {
	if in.Name != "" {
		t.Name = strings.TrimSpace(in.Name)
	}
	if t.Name == "" {
		return apperr.Validationf("name is required")
	}
	if in.TriggerType != "" {
		t.TriggerType = TriggerType(in.TriggerType)
	}
	if !t.TriggerType.Valid() {
		return apperr.Validationf("invalid trigger type %q", t.TriggerType)
	}
	if in.DelayHours != nil {
		if *in.DelayHours < 0 {
			return apperr.Validationf("delay hours must not be negative")
		}
		t.DelayHours = *in.DelayHours
	}
	if in.Subject != "" {
		t.Subject = in.Subject
	}
	if t.Subject == "" {
		return apperr.Validationf("subject is required")
	}
	if in.Body != "" {
		t.Body = in.Body
	}
	if t.Body == "" {
		return apperr.Validationf("body is required")
	}
	if in.Active != nil {
		t.Active = *in.Active
	}
	if in.UpsellProductID != nil {
		if *in.UpsellProductID == "" {
			t.UpsellProductID = nil
		} else {
			id, err := uuid.Parse(*in.UpsellProductID)
			if err != nil {
				return apperr.Validationf("invalid upsell product id")
			}
			t.UpsellProductID = &id
		}
	}
	return nil
}
