package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/yuin/goldmark"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/dbx"
	"github.com/lexdraft/lexdraft/internal/htmldocx"
	"github.com/lexdraft/lexdraft/internal/logging"
	"github.com/lexdraft/lexdraft/internal/server/models"
	"github.com/lexdraft/lexdraft/internal/server/repositories/repomanager"
)

const (
	// maxSourceDocuments bounds how many documents feed one generation.
	maxSourceDocuments = 5

	// llmAttempts and llmBackoff tune the retry loop around the completion
	// call (exponential: 1s, 2s).
	llmAttempts = 3
	llmBackoff  = 1 * time.Second
)

// GenerateRequest asks for a new draft letter. TemplateID may be empty, in
// which case the firm's default template is used. Title is optional.
type GenerateRequest struct {
	TemplateID  string
	DocumentIDs []string
	Title       string
}

// GeneratorService drafts demand letters: it loads the template and source
// documents, prompts the model and stores the result as a draft letter with
// its source-document links.
type GeneratorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	llm         LLMClient
	logger      logging.Logger
	now         func() time.Time
	retryBase   time.Duration
}

func NewGeneratorService(db *sql.DB, m repomanager.RepositoryManager, llm LLMClient, logger logging.Logger) *GeneratorService {
	return &GeneratorService{
		db:          db,
		repomanager: m,
		llm:         llm,
		logger:      logger,
		now:         time.Now,
		retryBase:   llmBackoff,
	}
}

// Generate produces a draft letter for the firm from a template and 1-5
// source documents. The LLM call is retried with exponential backoff; the
// letter and its document links are stored in one transaction.
func (s *GeneratorService) Generate(ctx context.Context, firmID, userID string, req GenerateRequest) (*models.Letter, error) {
	if len(req.DocumentIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", common.ErrValidation)
	}
	if len(req.DocumentIDs) > maxSourceDocuments {
		return nil, fmt.Errorf("%w: at most %d documents allowed per generation", common.ErrValidation, maxSourceDocuments)
	}

	template, err := s.loadTemplate(ctx, firmID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	docs, err := s.loadDocuments(ctx, firmID, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	userPrompt := buildGenerationPrompt(template, docs)

	content, err := s.complete(ctx, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	content = htmldocx.Sanitize(ensureHTML(content))
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: model returned empty content", common.ErrValidation)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Demand Letter - " + template.Name
	}
	if len(title) > 255 {
		title = title[:255]
	}

	now := s.now()
	letter := &models.Letter{
		ID:         uuid.NewString(),
		FirmID:     firmID,
		CreatedBy:  userID,
		Title:      title,
		Content:    content,
		Status:     models.StatusDraft,
		TemplateID: template.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Letters(tx)
		if err := repo.Create(ctx, letter); err != nil {
			return err
		}
		return repo.LinkSourceDocuments(ctx, letter.ID, req.DocumentIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "letter generated", "letter_id", letter.ID, "firm_id", firmID, "template_id", template.ID, "documents", len(docs))
	return letter, nil
}

func (s *GeneratorService) loadTemplate(ctx context.Context, firmID, templateID string) (*models.Template, error) {
	repo := s.repomanager.Templates(s.db)
	if templateID == "" {
		return repo.GetDefault(ctx, firmID)
	}

	template, err := repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.FirmID != firmID {
		return nil, common.ErrForbidden
	}
	return template, nil
}

func (s *GeneratorService) loadDocuments(ctx context.Context, firmID string, ids []string) ([]*models.Document, error) {
	repo := s.repomanager.Documents(s.db)

	docs := make([]*models.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc.FirmID != firmID {
			return nil, common.ErrForbidden
		}
		if strings.TrimSpace(doc.ExtractedText) == "" {
			return nil, fmt.Errorf("%w: document %s contains no extractable text", common.ErrValidation, doc.Filename)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// complete runs the LLM call with retries. All completion errors are treated
// as retryable; after the attempts are spent the last error surfaces.
func (s *GeneratorService) complete(ctx context.Context, userPrompt string) (string, error) {
	backoff := retry.WithMaxRetries(llmAttempts-1, retry.NewExponential(s.retryBase))

	var content string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var cerr error
		content, cerr = s.llm.Complete(ctx, generationSystemPrompt, userPrompt)
		if cerr != nil {
			s.logger.Warn(ctx, "completion attempt failed", "error", cerr)
			return retry.RetryableError(cerr)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// ensureHTML passes HTML output through unchanged and renders anything else
// (models occasionally answer in markdown despite instructions) to HTML with
// goldmark.
func ensureHTML(content string) string {
	if strings.Contains(content, "<") && strings.Contains(content, ">") {
		return content
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return buf.String()
}
