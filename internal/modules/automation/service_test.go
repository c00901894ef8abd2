package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberhollow/shop-api/internal/modules/audit"
)

type fakeAutomationRepo struct {
	templates []Template
	sends     []*Send
	sendErr   error
	listErr   error
}

func (f *fakeAutomationRepo) ListTemplates(context.Context) ([]Template, error) {
	return f.templates, nil
}

func (f *fakeAutomationRepo) ListActiveByTrigger(_ context.Context, trigger TriggerType) ([]Template, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Template
	for _, t := range f.templates {
		if t.Active && t.TriggerType == trigger {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeAutomationRepo) GetTemplateByID(_ context.Context, id string) (*Template, error) {
	for i := range f.templates {
		if f.templates[i].ID.String() == id {
			return &f.templates[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAutomationRepo) CreateTemplate(_ context.Context, t *Template) error {
	t.ID = uuid.New()
	f.templates = append(f.templates, *t)
	return nil
}

func (f *fakeAutomationRepo) UpdateTemplate(context.Context, *Template) error { return nil }
func (f *fakeAutomationRepo) DeleteTemplate(context.Context, string) error    { return nil }

func (f *fakeAutomationRepo) CreateSend(_ context.Context, s *Send) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sends = append(f.sends, s)
	return nil
}

func (f *fakeAutomationRepo) ListSends(context.Context, string, int) ([]Send, error) {
	return nil, nil
}

func newAutomationService(repo *fakeAutomationRepo) *Service {
	return NewService(repo, audit.Nop(), zap.NewNop())
}

func TestOrderPlacedSchedulesActiveTemplates(t *testing.T) {
	repo := &fakeAutomationRepo{templates: []Template{
		{ID: uuid.New(), Name: "Thank you", TriggerType: TriggerOrderPlaced, DelayHours: 0, Active: true},
		{ID: uuid.New(), Name: "Care tips", TriggerType: TriggerOrderPlaced, DelayHours: 48, Active: true},
		{ID: uuid.New(), Name: "Paused", TriggerType: TriggerOrderPlaced, Active: false},
		{ID: uuid.New(), Name: "Win back", TriggerType: TriggerWinBack, Active: true},
	}}
	svc := newAutomationService(repo)

	orderID := uuid.New()
	customerID := uuid.New()
	before := time.Now()
	svc.OrderPlaced(context.Background(), orderID, &customerID, "maple@example.com")

	require.Len(t, repo.sends, 2)
	first, second := repo.sends[0], repo.sends[1]

	require.NotNil(t, first.OrderID)
	assert.Equal(t, orderID, *first.OrderID)
	assert.Equal(t, "maple@example.com", first.CustomerEmail)
	assert.WithinDuration(t, before, first.ScheduledFor, 5*time.Second)
	assert.WithinDuration(t, before.Add(48*time.Hour), second.ScheduledFor, 5*time.Second)
}

func TestOrderPlacedSwallowsFailures(t *testing.T) {
	repo := &fakeAutomationRepo{
		templates: []Template{{ID: uuid.New(), Name: "Thank you", TriggerType: TriggerOrderPlaced, Active: true}},
		sendErr:   errors.New("insert failed"),
	}
	svc := newAutomationService(repo)

	// Must not panic or propagate: checkout depends on that.
	svc.OrderPlaced(context.Background(), uuid.New(), nil, "maple@example.com")
	assert.Empty(t, repo.sends)

	repo.listErr = errors.New("query failed")
	svc.OrderPlaced(context.Background(), uuid.New(), nil, "maple@example.com")
}

func TestCreateTemplateValidation(t *testing.T) {
	repo := &fakeAutomationRepo{}
	svc := newAutomationService(repo)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, TemplateInput{TriggerType: "ORDER_PLACED", Subject: "s", Body: "b"})
	require.Error(t, err)

	_, err = svc.CreateTemplate(ctx, TemplateInput{Name: "x", TriggerType: "ON_FULL_MOON", Subject: "s", Body: "b"})
	require.Error(t, err)

	neg := -1
	_, err = svc.CreateTemplate(ctx, TemplateInput{Name: "x", TriggerType: "ORDER_PLACED", Subject: "s", Body: "b", DelayHours: &neg})
	require.Error(t, err)

	tpl, err := svc.CreateTemplate(ctx, TemplateInput{Name: "Thank you", TriggerType: "ORDER_PLACED", Subject: "Thanks!", Body: "We appreciate you."})
	require.NoError(t, err)
	assert.True(t, tpl.Active)
	assert.Zero(t, tpl.DelayHours)
}
