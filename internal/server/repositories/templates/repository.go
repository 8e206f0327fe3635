package templates

import (
	"context"

	"github.com/lexdraft/lexdraft/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Template, error)
	GetDefault(ctx context.Context, firmID string) (*models.Template, error)
	List(ctx context.Context, firmID string) ([]*models.Template, error)
	Create(ctx context.Context, template *models.Template) error
}
