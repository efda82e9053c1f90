package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/ulmg70/internal/server/migrations"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/shopspring/decimal"
)

// NewTestDB opens an in-memory SQLite database with foreign keys on and the
// schema migrated. It is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, dialect, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := migrations.Up(context.Background(), conn, dialect); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return conn
}

// SeedProfile creates an account named username and its profile.
func SeedProfile(t *testing.T, conn *sql.DB, username, share string) *models.Profile {
	t.Helper()
	ctx := context.Background()

	account, err := accounts.NewSQLRepository(conn).Create(ctx, &models.Account{
		Username:  username,
		CreatedAt: FixedClock().Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed account %q: %v", username, err)
	}

	profile, err := profiles.NewSQLRepository(conn).Create(ctx, &models.Profile{
		AccountID:      account.ID,
		OwnershipShare: decimal.RequireFromString(share),
	})
	if err != nil {
		t.Fatalf("failed to seed profile %q: %v", username, err)
	}
	profile.Account = account

	return profile
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
