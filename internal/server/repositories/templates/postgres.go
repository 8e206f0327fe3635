// Package templates provides PostgreSQL-backed persistence for firm letter
// templates.
package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/dbx"
	"github.com/lexdraft/lexdraft/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const templateColumns = `id, firm_id, name, COALESCE(letterhead_text, ''), COALESCE(opening_paragraph, ''),
	COALESCE(closing_paragraph, ''), COALESCE(sections, '[]'::jsonb), is_default,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanTemplate(row interface{ Scan(dest ...any) error }) (*models.Template, error) {
	var t models.Template
	err := row.Scan(
		&t.ID, &t.FirmID, &t.Name, &t.LetterheadText, &t.OpeningParagraph,
		&t.ClosingParagraph, &t.Sections, &t.IsDefault, &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM letter_templates WHERE id = $1`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting template: %w", err)
	}
	return template, nil
}

func (r *PostgresRepository) GetDefault(ctx context.Context, firmID string) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM letter_templates WHERE firm_id = $1 AND is_default LIMIT 1`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, firmID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting default template: %w", err)
	}
	return template, nil
}

func (r *PostgresRepository) List(ctx context.Context, firmID string) ([]*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM letter_templates WHERE firm_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("selecting templates: %w", err)
	}
	defer rows.Close()

	var result []*models.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, template *models.Template) error {
	query := `
		INSERT INTO letter_templates (id, firm_id, name, letterhead_text, opening_paragraph,
			closing_paragraph, sections, is_default, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		template.ID, template.FirmID, template.Name, template.LetterheadText,
		template.OpeningParagraph, template.ClosingParagraph, template.Sections,
		template.IsDefault, template.CreatedBy, template.CreatedAt, template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}
