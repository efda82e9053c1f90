// Package migrations embeds the goose SQL migrations, one directory per
// dialect, and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

func provider(conn *sql.DB, dialect db.Dialect) (*goose.Provider, error) {
	var gd goose.Dialect
	switch dialect {
	case db.Postgres:
		gd = goose.DialectPostgres
	case db.SQLite:
		gd = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}

	dir, err := fs.Sub(Migrations, string(dialect))
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(gd, conn, dir)
}

// Up applies every pending migration.
func Up(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	p, err := provider(conn, dialect)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Status reports every known migration and whether it has been applied.
func Status(ctx context.Context, conn *sql.DB, dialect db.Dialect) ([]*goose.MigrationStatus, error) {
	p, err := provider(conn, dialect)
	if err != nil {
		return nil, err
	}
	return p.Status(ctx)
}
