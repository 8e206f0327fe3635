package documents

import (
	"context"

	"github.com/lexdraft/lexdraft/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, firmID string) ([]*models.Document, error)
	Create(ctx context.Context, document *models.Document) error
}
