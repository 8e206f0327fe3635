// Package letters provides PostgreSQL-backed persistence for generated
// demand letters and their source-document links.
package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/dbx"
	"github.com/lexdraft/lexdraft/internal/server/models"
)

// PostgresRepository implements letter storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const letterColumns = `id, firm_id, COALESCE(created_by::text, ''), title, content, status,
	COALESCE(template_id::text, ''), COALESCE(docx_storage_key, ''), created_at, updated_at`

func scanLetter(row interface{ Scan(dest ...any) error }) (*models.Letter, error) {
	var l models.Letter
	err := row.Scan(
		&l.ID, &l.FirmID, &l.CreatedBy, &l.Title, &l.Content, &l.Status,
		&l.TemplateID, &l.DocxStorageKey, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Letter, error) {
	query := `SELECT ` + letterColumns + ` FROM generated_letters WHERE id = $1`

	letter, err := scanLetter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting letter: %w", err)
	}
	return letter, nil
}

// sortColumns whitelists user-supplied sort fields.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"status":     "status",
}

func orderClause(params ListParams) string {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		return "created_at DESC"
	}
	if params.SortOrder == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

func (r *PostgresRepository) List(ctx context.Context, firmID string, params ListParams) ([]*models.Letter, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM generated_letters WHERE firm_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, firmID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting letters: %w", err)
	}

	query := `SELECT ` + letterColumns + ` FROM generated_letters WHERE firm_id = $1
		ORDER BY ` + orderClause(params) + ` LIMIT $2 OFFSET $3`

	offset := (params.Page - 1) * params.PageSize
	rows, err := r.db.QueryContext(ctx, query, firmID, params.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("selecting letters: %w", err)
	}
	defer rows.Close()

	var result []*models.Letter
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, letter)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) Create(ctx context.Context, letter *models.Letter) error {
	query := `
		INSERT INTO generated_letters (id, firm_id, created_by, title, content, status, template_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		letter.ID, letter.FirmID, letter.CreatedBy, letter.Title, letter.Content,
		letter.Status, letter.TemplateID, letter.CreatedAt, letter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting letter: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, letter *models.Letter) error {
	query := `
		UPDATE generated_letters
		SET title = $2, content = $3, status = $4, docx_storage_key = NULLIF($5, ''), updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		letter.ID, letter.Title, letter.Content, letter.Status, letter.DocxStorageKey, letter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating letter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM generated_letters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting letter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) LinkSourceDocuments(ctx context.Context, letterID string, documentIDs []string) error {
	query := `INSERT INTO letter_source_documents (letter_id, document_id) VALUES ($1, $2)`
	for _, docID := range documentIDs {
		if _, err := r.db.ExecContext(ctx, query, letterID, docID); err != nil {
			return fmt.Errorf("linking document %s: %w", docID, err)
		}
	}
	return nil
}
