// Package services contains server-side business logic. This file implements
// LetterService: letter CRUD plus the finalize/export pipeline that renders
// letters to .docx, uploads them to the artifact store and hands out
// presigned download links.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/htmldocx"
	"github.com/lexdraft/lexdraft/internal/logging"
	"github.com/lexdraft/lexdraft/internal/server/models"
	"github.com/lexdraft/lexdraft/internal/server/repositories/letters"
	"github.com/lexdraft/lexdraft/internal/server/repositories/repomanager"
	"github.com/lexdraft/lexdraft/internal/server/storage"
)

// presignTTL is how long exported download links stay valid.
const presignTTL = 1 * time.Hour

// ExportResult is the outcome of a finalize or export run: the persisted
// letter and a presigned download URL. ExpiresIn is the URL lifetime in
// seconds.
type ExportResult struct {
	Letter      *models.Letter
	DownloadURL string
	ExpiresIn   int64
}

// UpdateLetterParams carries the mutable letter fields for Update. Nil
// pointers leave the field unchanged.
type UpdateLetterParams struct {
	Title   *string
	Content *string
}

type LetterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ArtifactStore
	logger      logging.Logger
	now         func() time.Time
}

func NewLetterService(db *sql.DB, m repomanager.RepositoryManager, store storage.ArtifactStore, logger logging.Logger) *LetterService {
	return &LetterService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// load fetches a letter and enforces firm isolation. A letter that exists
// but belongs to another firm yields ErrForbidden, never NotFound, so the
// caller can distinguish the two cases in logs.
func (s *LetterService) load(ctx context.Context, firmID, letterID string) (*models.Letter, error) {
	letter, err := s.repomanager.Letters(s.db).GetByID(ctx, letterID)
	if err != nil {
		return nil, err
	}
	if letter.FirmID != firmID {
		s.logger.Warn(ctx, "cross-firm letter access attempt", "letter_id", letterID, "letter_firm", letter.FirmID, "request_firm", firmID)
		return nil, common.ErrForbidden
	}
	return letter, nil
}

// Get returns a single letter. If the letter already has an exported
// artifact, a presigned URL is attached best-effort: a presign failure is
// logged and the letter is returned without a link.
func (s *LetterService) Get(ctx context.Context, firmID, letterID string) (*models.Letter, string, error) {
	letter, err := s.load(ctx, firmID, letterID)
	if err != nil {
		return nil, "", err
	}

	url := ""
	if letter.DocxStorageKey != "" {
		url, err = s.store.PresignGet(ctx, letter.DocxStorageKey, presignTTL)
		if err != nil {
			s.logger.Warn(ctx, "presign for existing artifact failed", "letter_id", letter.ID, "key", letter.DocxStorageKey, "error", err)
			url = ""
		}
	}
	return letter, url, nil
}

// List returns one page of the firm's letters plus the total count.
func (s *LetterService) List(ctx context.Context, firmID string, params letters.ListParams) ([]*models.Letter, int, error) {
	return s.repomanager.Letters(s.db).List(ctx, firmID, params)
}

// Update applies title/content changes to a letter. Empty updates are
// rejected with ErrValidation.
func (s *LetterService) Update(ctx context.Context, firmID, letterID string, params UpdateLetterParams) (*models.Letter, error) {
	if params.Title == nil && params.Content == nil {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	if params.Title != nil && *params.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrValidation)
	}

	letter, err := s.load(ctx, firmID, letterID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		letter.Title = *params.Title
	}
	if params.Content != nil {
		letter.Content = *params.Content
	}
	letter.UpdatedAt = s.now()

	if err := s.repomanager.Letters(s.db).Update(ctx, letter); err != nil {
		return nil, err
	}
	return letter, nil
}

// Delete removes a letter row and, best-effort, its exported artifact. The
// row is deleted regardless of artifact cleanup outcome.
func (s *LetterService) Delete(ctx context.Context, firmID, letterID string) error {
	letter, err := s.load(ctx, firmID, letterID)
	if err != nil {
		return err
	}

	if letter.DocxStorageKey != "" {
		if err := s.store.Delete(ctx, letter.DocxStorageKey); err != nil {
			s.logger.Warn(ctx, "artifact cleanup failed on delete", "letter_id", letter.ID, "key", letter.DocxStorageKey, "error", err)
		}
	}

	return s.repomanager.Letters(s.db).Delete(ctx, letterID)
}

// Finalize regenerates the letter's .docx artifact, marks the letter as
// created and returns a presigned download link. Finalizing an already
// finalized letter is valid and produces a fresh artifact.
func (s *LetterService) Finalize(ctx context.Context, firmID, letterID string) (*ExportResult, error) {
	return s.regenerate(ctx, firmID, letterID, true)
}

// Export regenerates the letter's .docx artifact and returns a presigned
// download link without touching the letter's status. Export works for
// drafts too: the artifact reflects current content either way.
func (s *LetterService) Export(ctx context.Context, firmID, letterID string) (*ExportResult, error) {
	return s.regenerate(ctx, firmID, letterID, false)
}

// regenerate is the shared finalize/export pipeline. Ordering matters:
// conversion and upload happen before any DB write, so a failure in either
// leaves the letter row untouched. Stale-artifact deletion is best-effort
// and never aborts the run.
func (s *LetterService) regenerate(ctx context.Context, firmID, letterID string, markCreated bool) (*ExportResult, error) {
	letter, err := s.load(ctx, firmID, letterID)
	if err != nil {
		return nil, err
	}

	oldKey := letter.DocxStorageKey

	filename := htmldocx.Filename(letter.Title, letter.UpdatedAt)
	key := fmt.Sprintf("%s/letters/%s", letter.FirmID, filename)

	data, err := htmldocx.Convert(letter.Content)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, key, data, htmldocx.ContentType); err != nil {
		return nil, fmt.Errorf("%w: uploading %s: %v", common.ErrArtifactStore, key, err)
	}

	if oldKey != "" && oldKey != key {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			s.logger.Warn(ctx, "stale artifact cleanup failed", "letter_id", letter.ID, "key", oldKey, "error", err)
		}
	}

	if markCreated {
		letter.Status = models.StatusCreated
	}
	letter.DocxStorageKey = key
	letter.UpdatedAt = s.now()

	if err := s.repomanager.Letters(s.db).Update(ctx, letter); err != nil {
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, key, presignTTL)
	if err != nil {
		// The artifact and the letter row are already consistent; only the
		// link could not be minted.
		return nil, fmt.Errorf("%w: presigning %s: %v", common.ErrArtifactStore, key, err)
	}

	s.logger.Info(ctx, "letter artifact generated", "letter_id", letter.ID, "key", key, "finalize", markCreated)

	return &ExportResult{
		Letter:      letter,
		DownloadURL: url,
		ExpiresIn:   int64(presignTTL / time.Second),
	}, nil
}
