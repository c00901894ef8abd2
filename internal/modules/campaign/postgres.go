package campaign

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

// Repository is the storage contract for campaigns.
type Repository interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	GetCampaignByID(ctx context.Context, id string) (*Campaign, error)
	CreateCampaign(ctx context.Context, c *Campaign) error
	UpdateCampaign(ctx context.Context, c *Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
	// MarkSent flips a draft to SENT with the recipient snapshot. Returns
	// NotFound when the campaign is missing or already sent.
	MarkSent(ctx context.Context, id string, recipientCount int) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const campaignCols = `id, name, segment, subject, body, promo_code, recipient_count, status, sent_at, created_at`

func scanCampaign(row interface{ Scan(...interface{}) error }) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Segment, &c.Subject, &c.Body, &c.PromoCode,
		&c.RecipientCount, &c.Status, &c.SentAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignCols+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetCampaignByID(ctx context.Context, id string) (*Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignCols+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("campaign not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) CreateCampaign(ctx context.Context, c *Campaign) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO campaigns (name, segment, subject, body, promo_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recipient_count, status, created_at`,
		c.Name, c.Segment, c.Subject, c.Body, c.PromoCode,
	).Scan(&c.ID, &c.RecipientCount, &c.Status, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateCampaign(ctx context.Context, c *Campaign) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET name = $2, segment = $3, subject = $4, body = $5, promo_code = $6
		WHERE id = $1 AND status = 'DRAFT'`,
		c.ID, c.Name, c.Segment, c.Subject, c.Body, c.PromoCode)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.Conflictf("campaign not found or already sent")
	}
	return nil
}

func (r *PostgresRepository) DeleteCampaign(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM campaigns WHERE id = $1 AND status = 'DRAFT'`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.Conflictf("campaign not found or already sent")
	}
	return nil
}

func (r *PostgresRepository) MarkSent(ctx context.Context, id string, recipientCount int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET status = 'SENT', recipient_count = $2, sent_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'`, id, recipientCount)
	if err != nil {
		return fmt.Errorf("mark campaign sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.Conflictf("campaign not found or already sent")
	}
	return nil
}
