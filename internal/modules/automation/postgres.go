package automation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Repository is the storage contract for templates and their sends.
type Repository interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	ListActiveByTrigger(ctx context.Context, trigger TriggerType) ([]Template, error)
	GetTemplateByID(ctx context.Context, id string) (*Template, error)
	CreateTemplate(ctx context.Context, t *Template) error
	UpdateTemplate(ctx context.Context, t *Template) error
	DeleteTemplate(ctx context.Context, id string) error

	CreateSend(ctx context.Context, s *Send) error
	ListSends(ctx context.Context, templateID string, limit int) ([]Send, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const templateCols = `id, name, trigger_type, delay_hours, subject, body, active, upsell_product_id, created_at, updated_at`

func scanTemplate(row interface{ Scan(...interface{}) error }) (*Template, error) {
	var t Template
	var upsell uuid.NullUUID
	err := row.Scan(&t.ID, &t.Name, &t.TriggerType, &t.DelayHours, &t.Subject, &t.Body,
		&t.Active, &upsell, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if upsell.Valid {
		t.UpsellProductID = &upsell.UUID
	}
	return &t, nil
}

func (r *PostgresRepository) ListTemplates(ctx context.Context) ([]Template, error) {
	return r.queryTemplates(ctx,
		`SELECT `+templateCols+` FROM automation_templates ORDER BY created_at ASC`)
}

func (r *PostgresRepository) ListActiveByTrigger(ctx context.Context, trigger TriggerType) ([]Template, error) {
	return r.queryTemplates(ctx,
		`SELECT `+templateCols+` FROM automation_templates WHERE active = TRUE AND trigger_type = $1`,
		trigger)
}

func (r *PostgresRepository) queryTemplates(ctx context.Context, query string, args ...interface{}) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list automation templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan automation template: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetTemplateByID(ctx context.Context, id string) (*Template, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateCols+` FROM automation_templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("automation template not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get automation template: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) CreateTemplate(ctx context.Context, t *Template) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO automation_templates (name, trigger_type, delay_hours, subject, body, active, upsell_product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		t.Name, t.TriggerType, t.DelayHours, t.Subject, t.Body, t.Active, t.UpsellProductID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create automation template: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateTemplate(ctx context.Context, t *Template) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE automation_templates SET name = $2, trigger_type = $3, delay_hours = $4,
			subject = $5, body = $6, active = $7, upsell_product_id = $8, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.TriggerType, t.DelayHours, t.Subject, t.Body, t.Active, t.UpsellProductID)
	if err != nil {
		return fmt.Errorf("update automation template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("automation template not found")
	}
	return nil
}

func (r *PostgresRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM automation_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete automation template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("automation template not found")
	}
	return nil
}

func (r *PostgresRepository) CreateSend(ctx context.Context, s *Send) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO automation_sends (template_id, order_id, customer_id, customer_email, scheduled_for)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at`,
		s.TemplateID, s.OrderID, s.CustomerID, s.CustomerEmail, s.ScheduledFor,
	).Scan(&s.ID, &s.Status, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create automation send: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListSends(ctx context.Context, templateID string, limit int) ([]Send, error) {
	query := `
		SELECT id, template_id, order_id, customer_id, customer_email, status, scheduled_for, sent_at, created_at
		FROM automation_sends`
	args := []interface{}{}
	if templateID != "" {
		query += ` WHERE template_id = $1`
		args = append(args, templateID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list automation sends: %w", err)
	}
	defer rows.Close()

	var out []Send
	for rows.Next() {
		var s Send
		var orderID, customerID uuid.NullUUID
		var sentAt *time.Time
		err := rows.Scan(&s.ID, &s.TemplateID, &orderID, &customerID, &s.CustomerEmail,
			&s.Status, &s.ScheduledFor, &sentAt, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan automation send: %w", err)
		}
		if orderID.Valid {
			s.OrderID = &orderID.UUID
		}
		if customerID.Valid {
			s.CustomerID = &customerID.UUID
		}
		s.SentAt = sentAt
		out = append(out, s)
	}
	return out, rows.Err()
}
