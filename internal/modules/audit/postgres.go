package audit

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL audit repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateEntry(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs
		  (id, entity_type, entity_id, action, author_name, before_data, after_data, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.EntityType, e.EntityID, e.Action, e.AuthorName,
		nullable(e.BeforeData), nullable(e.AfterData), e.Description)
	return err
}

func (r *postgresRepo) ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	query := `SELECT id, entity_type, entity_id, action, author_name,
	                 COALESCE(before_data, ''), COALESCE(after_data, ''), description, created_at
	          FROM audit_logs`
	var args []interface{}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(` WHERE entity_type=$%d`, len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		if len(args) == 1 {
			query += fmt.Sprintf(` WHERE entity_id=$%d`, len(args))
		} else {
			query += fmt.Sprintf(` AND entity_id=$%d`, len(args))
		}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.AuthorName,
			&e.BeforeData, &e.AfterData, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
