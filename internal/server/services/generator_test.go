package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/server/models"
)

type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return "", errors.New("no response configured")
}

type fakeTemplateRepo struct {
	byID       map[string]*models.Template
	defaultTpl *models.Template
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*models.Template, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (r *fakeTemplateRepo) GetDefault(ctx context.Context, firmID string) (*models.Template, error) {
	if r.defaultTpl == nil || r.defaultTpl.FirmID != firmID {
		return nil, common.ErrNotFound
	}
	return r.defaultTpl, nil
}

func (r *fakeTemplateRepo) List(ctx context.Context, firmID string) ([]*models.Template, error) {
	return nil, nil
}

func (r *fakeTemplateRepo) Create(ctx context.Context, template *models.Template) error {
	r.byID[template.ID] = template
	return nil
}

type fakeDocumentRepo struct {
	byID map[string]*models.Document
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return d, nil
}

func (r *fakeDocumentRepo) List(ctx context.Context, firmID string) ([]*models.Document, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *models.Document) error {
	r.byID[document.ID] = document
	return nil
}

func firmTemplate() *models.Template {
	return &models.Template{
		ID:               "tpl-1",
		FirmID:           "firm-1",
		Name:             "Auto Accident",
		LetterheadText:   "Smith & Partners LLP",
		OpeningParagraph: "We represent the claimant.",
		ClosingParagraph: "We await your response.",
		Sections:         []byte(`["Incident Overview","Damages","Demand"]`),
	}
}

func sourceDocument(id string) *models.Document {
	return &models.Document{
		ID:            id,
		FirmID:        "firm-1",
		Filename:      id + ".pdf",
		ExtractedText: "Patient treated for whiplash. Total billed: $12,400.",
	}
}

type generatorFixture struct {
	svc     *GeneratorService
	llm     *fakeLLM
	letters *fakeLetterRepo
	mock    sqlmock.Sqlmock
}

func newGeneratorFixture(t *testing.T, llm *fakeLLM) *generatorFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	letterRepo := newFakeLetterRepo()
	m := &fakeRepoManager{
		letters: letterRepo,
		templates: &fakeTemplateRepo{
			byID:       map[string]*models.Template{"tpl-1": firmTemplate()},
			defaultTpl: firmTemplate(),
		},
		documents: &fakeDocumentRepo{byID: map[string]*models.Document{
			"doc-1": sourceDocument("doc-1"),
			"doc-2": sourceDocument("doc-2"),
		}},
	}

	svc := NewGeneratorService(db, m, llm, nopLogger{})
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	svc.retryBase = time.Millisecond

	return &generatorFixture{svc: svc, llm: llm, letters: letterRepo, mock: mock}
}

func TestGenerate_CreatesDraftWithLinks(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<h1>Demand</h1><p>Pay up.</p>"}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	letter, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, letter.Status)
	assert.Equal(t, "firm-1", letter.FirmID)
	assert.Equal(t, "Demand Letter - Auto Accident", letter.Title)
	assert.Equal(t, "<h1>Demand</h1><p>Pay up.</p>", letter.Content)
	assert.NotEmpty(t, letter.ID)

	assert.Equal(t, []string{"doc-1", "doc-2"}, fx.letters.linked[letter.ID])
	require.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestGenerate_UsesProvidedTitle(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<p>ok</p>"}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	letter, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1"},
		Title:       "  Smith v. Jones  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Smith v. Jones", letter.Title)
}

func TestGenerate_DefaultTemplateWhenUnspecified(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<p>ok</p>"}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	letter, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		DocumentIDs: []string{"doc-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tpl-1", letter.TemplateID)
}

func TestGenerate_DocumentCountValidation(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<p>ok</p>"}})

	_, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{TemplateID: "tpl-1"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"1", "2", "3", "4", "5", "6"},
	})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, fx.llm.calls)
}

func TestGenerate_ForeignTemplate_Forbidden(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<p>ok</p>"}})

	_, err := fx.svc.Generate(context.Background(), "firm-2", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1"},
	})
	require.ErrorIs(t, err, common.ErrForbidden)
	assert.Equal(t, 0, fx.llm.calls)
}

func TestGenerate_EmptyDocumentText_Validation(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<p>ok</p>"}})
	empty := sourceDocument("doc-empty")
	empty.ExtractedText = "   "
	fx.svc.repomanager.(*fakeRepoManager).documents.(*fakeDocumentRepo).byID["doc-empty"] = empty

	_, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-empty"},
	})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, fx.llm.calls)
}

func TestGenerate_RetriesTransientLLMFailures(t *testing.T) {
	llm := &fakeLLM{
		errs:      []error{errors.New("429 rate limited"), errors.New("timeout")},
		responses: []string{"", "", "<p>third time lucky</p>"},
	}
	fx := newGeneratorFixture(t, llm)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	letter, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, llm.calls)
	assert.Equal(t, "<p>third time lucky</p>", letter.Content)
}

func TestGenerate_LLMExhaustsRetries(t *testing.T) {
	llm := &fakeLLM{errs: []error{
		errors.New("boom"), errors.New("boom"), errors.New("boom"),
	}}
	fx := newGeneratorFixture(t, llm)

	_, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1"},
	})
	require.ErrorIs(t, err, common.ErrInternal)
	assert.Equal(t, 3, llm.calls)
	assert.Empty(t, fx.letters.byID)
}

func TestGenerate_MarkdownFallback(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"# Demand\n\nPay the claimant."}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	letter, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1"},
	})
	require.NoError(t, err)
	assert.Contains(t, letter.Content, "<h1")
	assert.Contains(t, letter.Content, "Pay the claimant.")
}

func TestGenerate_StripsScriptFromOutput(t *testing.T) {
	fx := newGeneratorFixture(t, &fakeLLM{responses: []string{"<p>hello</p><script>alert(1)</script>"}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	letter, err := fx.svc.Generate(context.Background(), "firm-1", "user-1", GenerateRequest{
		TemplateID:  "tpl-1",
		DocumentIDs: []string{"doc-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", letter.Content)
}
