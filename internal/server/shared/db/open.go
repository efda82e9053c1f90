// Package db opens the relational store. The DSN scheme picks the driver:
// postgres:// and postgresql:// go through pgx, sqlite://, file: and
// :memory: through go-sqlite3 with foreign keys enforced.
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/common"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavour behind a *sql.DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open returns a configured connection pool and its dialect.
func Open(dsn string) (*sql.DB, Dialect, error) {
	driver, source, dialect, err := Resolve(dsn)
	if err != nil {
		return nil, "", err
	}

	conn, err := sqlOpen(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	switch dialect {
	case SQLite:
		// one writer; also keeps a :memory: database on a single connection
		conn.SetMaxOpenConns(1)
	case Postgres:
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(30 * time.Minute)
	}

	return conn, dialect, nil
}

// Resolve maps a DSN to a database/sql driver name, the driver-specific
// data source and the dialect.
func Resolve(dsn string) (driver, source string, dialect Dialect, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, Postgres, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite3", withForeignKeys(strings.TrimPrefix(dsn, "sqlite://")), SQLite, nil
	case dsn == ":memory:", strings.HasPrefix(dsn, "file:"):
		return "sqlite3", withForeignKeys(dsn), SQLite, nil
	default:
		return "", "", "", fmt.Errorf("%w: %q", common.ErrUnsupportedDSN, dsn)
	}
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
