package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder is the cross-cutting audit writer handed to every admin
// mutation path. Record never fails the parent operation: write errors
// are swallowed and logged to the operator.
type Recorder interface {
	Record(ctx context.Context, entityType, entityID, action, description string, before, after interface{})
}

// Service combines the recorder with the admin query surface.
type Service interface {
	Recorder

	// List returns audit entries for the admin UI.
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new audit service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Record(ctx context.Context, entityType, entityID, action, description string, before, after interface{}) {
	e := &Entry{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		AuthorName:  Author(ctx),
		BeforeData:  marshalSnapshot(before),
		AfterData:   marshalSnapshot(after),
		Description: description,
	}
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		s.log.Error("audit write failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

func marshalSnapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type authorKey struct{}

// WithAuthor tags the context with the acting admin's name so audit
// entries attribute the mutation.
func WithAuthor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, authorKey{}, name)
}

// Author returns the acting admin's name set by WithAuthor, or "Admin"
// when the context carries none.
func Author(ctx context.Context) string {
	if name, ok := ctx.Value(authorKey{}).(string); ok && name != "" {
		return name
	}
	return "Admin"
}

// Nop returns a Recorder that discards everything. Used by tests.
func Nop() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, string, string, string, string, interface{}, interface{}) {
}
