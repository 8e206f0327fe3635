package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/logging"
	"github.com/lexdraft/lexdraft/internal/server/models"
	"github.com/lexdraft/lexdraft/internal/server/repositories/repomanager"
)

// CreateTemplateParams carries the fields for a new letter template.
// Sections must be a JSON array of section names when present.
type CreateTemplateParams struct {
	Name             string
	LetterheadText   string
	OpeningParagraph string
	ClosingParagraph string
	Sections         []byte
	IsDefault        bool
}

// TemplateService provides firm-scoped template access for letter
// generation.
type TemplateService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewTemplateService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TemplateService {
	return &TemplateService{
		db:          db,
		repomanager: m,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns all templates of the firm.
func (s *TemplateService) List(ctx context.Context, firmID string) ([]*models.Template, error) {
	return s.repomanager.Templates(s.db).List(ctx, firmID)
}

// Get returns a single template, enforcing firm isolation.
func (s *TemplateService) Get(ctx context.Context, firmID, templateID string) (*models.Template, error) {
	template, err := s.repomanager.Templates(s.db).GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.FirmID != firmID {
		return nil, common.ErrForbidden
	}
	return template, nil
}

// Create stores a new template for the firm.
func (s *TemplateService) Create(ctx context.Context, firmID, userID string, params CreateTemplateParams) (*models.Template, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: template name is required", common.ErrValidation)
	}
	if len(params.Sections) > 0 && !json.Valid(params.Sections) {
		return nil, fmt.Errorf("%w: sections must be valid JSON", common.ErrValidation)
	}

	now := s.now()
	template := &models.Template{
		ID:               uuid.NewString(),
		FirmID:           firmID,
		Name:             strings.TrimSpace(params.Name),
		LetterheadText:   params.LetterheadText,
		OpeningParagraph: params.OpeningParagraph,
		ClosingParagraph: params.ClosingParagraph,
		Sections:         params.Sections,
		IsDefault:        params.IsDefault,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repomanager.Templates(s.db).Create(ctx, template); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "template created", "template_id", template.ID, "firm_id", firmID)
	return template, nil
}
