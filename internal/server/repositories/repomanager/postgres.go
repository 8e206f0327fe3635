package repomanager

import (
	"github.com/lexdraft/lexdraft/internal/dbx"
	"github.com/lexdraft/lexdraft/internal/server/repositories/documents"
	"github.com/lexdraft/lexdraft/internal/server/repositories/letters"
	"github.com/lexdraft/lexdraft/internal/server/repositories/templates"
	"github.com/lexdraft/lexdraft/internal/server/repositories/users"
)

// PostgresRepositoryManager builds PostgreSQL repositories over whichever
// DBTX the caller supplies.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Letters(db dbx.DBTX) letters.Repository {
	return letters.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Templates(db dbx.DBTX) templates.Repository {
	return templates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}
