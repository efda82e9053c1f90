// Package repomanager provides a RepositoryManager over database/sql for
// both supported dialects, wiring repository constructors and the embedded
// goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/migrations"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/logentries"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/reservations"
	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repositories bound to whatever DBTX
// the caller holds, so one transaction can span several of them.
type SQLRepositoryManager struct {
	dialect db.Dialect
	clock   timex.Clock
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(db)
}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLRepository(db)
}

// Reservations returns a reservations.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Reservations(db dbx.DBTX) reservations.Repository {
	return reservations.NewSQLRepository(db)
}

// LogEntries returns a logentries.Repository bound to the provided DBTX.
// Entries are stamped with the manager's clock.
func (m *SQLRepositoryManager) LogEntries(db dbx.DBTX) logentries.Repository {
	return logentries.NewSQLRepository(db, m.clock)
}

// seams for tests
var (
	migrateUp       = migrations.Up
	migrationStatus = migrations.Status
)

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, conn *sql.DB) error {
	return migrateUp(ctx, conn, m.dialect)
}

func (m *SQLRepositoryManager) MigrationStatus(ctx context.Context, conn *sql.DB) ([]*goose.MigrationStatus, error) {
	return migrationStatus(ctx, conn, m.dialect)
}

func (m *SQLRepositoryManager) Dialect() db.Dialect {
	return m.dialect
}

// NewSQLRepositoryManager constructs a RepositoryManager for dialect.
func NewSQLRepositoryManager(dialect db.Dialect, clock timex.Clock) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect, clock: clock}
}
