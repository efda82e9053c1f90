package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/logentries"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/reservations"
	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return conn, mock
}

func TestNewSQLRepositoryManager_ReturnsInterface(t *testing.T) {
	m := NewSQLRepositoryManager(db.Postgres, timex.RealClock{})
	var _ RepositoryManager = m
	if m.Dialect() != db.Postgres {
		t.Fatalf("dialect = %q", m.Dialect())
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	conn, _ := newDB(t)
	defer conn.Close()

	m := NewSQLRepositoryManager(db.SQLite, timex.RealClock{})

	if a := m.Accounts(conn); a == nil {
		t.Fatal("Accounts() nil")
	}
	if p := m.Profiles(conn); p == nil {
		t.Fatal("Profiles() nil")
	}
	if r := m.Reservations(conn); r == nil {
		t.Fatal("Reservations() nil")
	}
	if l := m.LogEntries(conn); l == nil {
		t.Fatal("LogEntries() nil")
	}

	var _ accounts.Repository = m.Accounts(conn)
	var _ profiles.Repository = m.Profiles(conn)
	var _ reservations.Repository = m.Reservations(conn)
	var _ logentries.Repository = m.LogEntries(conn)
}

func TestRunMigrations_Success(t *testing.T) {
	conn, _ := newDB(t)
	defer conn.Close()

	orig := migrateUp
	migrateUp = func(ctx context.Context, c *sql.DB, dialect db.Dialect) error {
		if dialect != db.SQLite {
			return errors.New("unexpected dialect")
		}
		if c != conn {
			return errors.New("unexpected connection")
		}
		return nil
	}
	defer func() { migrateUp = orig }()

	m := NewSQLRepositoryManager(db.SQLite, timex.RealClock{})
	if err := m.RunMigrations(context.Background(), conn); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	conn, _ := newDB(t)
	defer conn.Close()

	orig := migrateUp
	migrateUp = func(ctx context.Context, c *sql.DB, dialect db.Dialect) error {
		return errors.New("boom")
	}
	defer func() { migrateUp = orig }()

	m := NewSQLRepositoryManager(db.Postgres, timex.RealClock{})
	if err := m.RunMigrations(context.Background(), conn); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMigrationStatus_PassesDialect(t *testing.T) {
	conn, _ := newDB(t)
	defer conn.Close()

	orig := migrationStatus
	migrationStatus = func(ctx context.Context, c *sql.DB, dialect db.Dialect) ([]*goose.MigrationStatus, error) {
		if dialect != db.Postgres {
			return nil, errors.New("unexpected dialect")
		}
		return []*goose.MigrationStatus{{State: goose.StateApplied}}, nil
	}
	defer func() { migrationStatus = orig }()

	m := NewSQLRepositoryManager(db.Postgres, timex.RealClock{})
	got, err := m.MigrationStatus(context.Background(), conn)
	if err != nil {
		t.Fatalf("MigrationStatus error: %v", err)
	}
	if len(got) != 1 || got[0].State != goose.StateApplied {
		t.Fatalf("unexpected status: %+v", got)
	}
}
