package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/logentries"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/reservations"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	MigrationStatus(context.Context, *sql.DB) ([]*goose.MigrationStatus, error)
	Accounts(db dbx.DBTX) accounts.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Reservations(db dbx.DBTX) reservations.Repository
	LogEntries(db dbx.DBTX) logentries.Repository
}
