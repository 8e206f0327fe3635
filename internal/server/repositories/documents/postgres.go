// Package documents provides PostgreSQL-backed persistence for uploaded
// source documents.
package documents

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

const documentColumns = `id, firm_id, filename, file_size, COALESCE(extracted_text, ''), uploaded_at`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	var d models.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.FirmID, &d.Filename, &d.FileSize, &d.ExtractedText, &d.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting document: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) List(ctx context.Context, firmID string) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE firm_id = $1 ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("selecting documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.FirmID, &d.Filename, &d.FileSize, &d.ExtractedText, &d.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, document *models.Document) error {
	query := `
		INSERT INTO documents (id, firm_id, filename, file_size, extracted_text, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		document.ID, document.FirmID, document.Filename, document.FileSize,
		document.ExtractedText, document.UploadedAt)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}
