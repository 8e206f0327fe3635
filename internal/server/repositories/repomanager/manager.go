// Package repomanager exposes a factory over the per-entity repositories so
// services can obtain repositories bound either to the shared *sql.DB or to
// a transaction handle inside dbx.WithTx.
package repomanager

import (
	"github.com/lexdraft/lexdraft/internal/dbx"
	"github.com/lexdraft/lexdraft/internal/server/repositories/documents"
	"github.com/lexdraft/lexdraft/internal/server/repositories/letters"
	"github.com/lexdraft/lexdraft/internal/server/repositories/templates"
	"github.com/lexdraft/lexdraft/internal/server/repositories/users"
)

type RepositoryManager interface {
	Letters(db dbx.DBTX) letters.Repository
	Templates(db dbx.DBTX) templates.Repository
	Documents(db dbx.DBTX) documents.Repository
	Users(db dbx.DBTX) users.Repository
}
