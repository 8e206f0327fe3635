package letters

import (
	"context"

	"github.com/lexdraft/lexdraft/internal/server/models"
)

// ListParams controls pagination and ordering of letter listings.
// Page is 1-indexed. SortBy is one of created_at, updated_at, title,
// status; anything else falls back to created_at descending.
type ListParams struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Letter, error)
	List(ctx context.Context, firmID string, params ListParams) ([]*models.Letter, int, error)
	Create(ctx context.Context, letter *models.Letter) error
	Update(ctx context.Context, letter *models.Letter) error
	Delete(ctx context.Context, id string) error
	LinkSourceDocuments(ctx context.Context, letterID string, documentIDs []string) error
}
