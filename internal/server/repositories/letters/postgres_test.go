package letters

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/server/models"
)

var letterRowColumns = []string{
	"id", "firm_id", "created_by", "title", "content", "status",
	"template_id", "docx_storage_key", "created_at", "updated_at",
}

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM generated_letters WHERE id = \$1`).
		WithArgs("letter-1").
		WillReturnRows(sqlmock.NewRows(letterRowColumns).
			AddRow("letter-1", "firm-1", "user-1", "Smith v. Jones", "<p>x</p>", "draft", "", "", now, now))

	letter, err := repo.GetByID(context.Background(), "letter-1")
	require.NoError(t, err)
	assert.Equal(t, "Smith v. Jones", letter.Title)
	assert.Equal(t, "draft", letter.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM generated_letters WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(letterRowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_PaginationAndCount(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM generated_letters WHERE firm_id = \$1`).
		WithArgs("firm-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	mock.ExpectQuery(`SELECT (.+) FROM generated_letters WHERE firm_id = \$1(.+)ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("firm-1", 10, 10).
		WillReturnRows(sqlmock.NewRows(letterRowColumns).
			AddRow("letter-1", "firm-1", "", "A", "", "draft", "", "", now, now).
			AddRow("letter-2", "firm-1", "", "B", "", "created", "", "", now, now))

	result, total, err := repo.List(context.Background(), "firm-1", ListParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.Len(t, result, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_UnknownSortFallsBackToCreatedAtDesc(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM generated_letters`).
		WithArgs("firm-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs("firm-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(letterRowColumns))

	_, _, err := repo.List(context.Background(), "firm-1", ListParams{SortBy: "docx_storage_key; DROP TABLE"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE generated_letters`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Letter{ID: "missing"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_OK(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectExec(`UPDATE generated_letters`).
		WithArgs("letter-1", "New Title", "<p>new</p>", "created", "firm-1/letters/x.docx", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Letter{
		ID: "letter-1", Title: "New Title", Content: "<p>new</p>",
		Status: "created", DocxStorageKey: "firm-1/letters/x.docx", UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM generated_letters WHERE id = \$1`).
		WithArgs("letter-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "letter-1"))

	mock.ExpectExec(`DELETE FROM generated_letters WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), "missing"), common.ErrNotFound)
}

func TestLinkSourceDocuments(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO letter_source_documents`).
		WithArgs("letter-1", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO letter_source_documents`).
		WithArgs("letter-1", "doc-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.LinkSourceDocuments(context.Background(), "letter-1", []string{"doc-1", "doc-2"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
