package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

type stubArchiver struct {
	entries []*models.LogEntry
}

func (s *stubArchiver) Export(ctx context.Context, entries []*models.LogEntry) (string, error) {
	s.entries = entries
	return "logbook/2024/06/15/snapshot.csv", nil
}

func TestCommands(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "ulm.sqlite3")

	out, err := run(t, "migrate", "--dsn", dsn)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Migrations applied.")

	out, err = run(t, "migrate", "status", "--dsn", dsn)
	require.NoError(t, err, out)
	assert.Contains(t, out, "00001")
	assert.Contains(t, out, "applied")

	out, err = run(t, "profile", "add", "alice", "--share", "60", "--licence", "ULM-42", "--dsn", dsn)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created profile")
	assert.Contains(t, out, "60.00%")

	out, err = run(t, "profile", "list", "--dsn", dsn)
	require.NoError(t, err, out)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "ULM-42")

	out, err = run(t, "reservation", "list", "--dsn", dsn, "--tz", "Europe/Paris")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No upcoming reservations.")

	stub := &stubArchiver{}
	orig := newExporter
	newExporter = func(ctx context.Context, a *admin) (services.Archiver, error) { return stub, nil }
	t.Cleanup(func() { newExporter = orig })

	out, err = run(t, "logbook", "export", "--dsn", dsn, "--bucket", "archive")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Uploaded s3://archive/logbook/2024/06/15/snapshot.csv")
	assert.NotNil(t, stub.entries)

	out, err = run(t, "profile", "delete", "alice", "--dsn", dsn)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted alice")

	out, err = run(t, "profile", "list", "--dsn", dsn)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No profiles.")

	_, err = run(t, "profile", "delete", "alice", "--dsn", dsn)
	assert.Error(t, err)
}

func TestProfileAdd_RequiresUsername(t *testing.T) {
	_, err := run(t, "profile", "add", "--dsn", ":memory:")
	assert.Error(t, err)
}

func TestProfileAdd_RejectsBadShare(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "ulm.sqlite3")
	_, err := run(t, "migrate", "--dsn", dsn)
	require.NoError(t, err)

	out, err := run(t, "profile", "add", "bob", "--share", "101", "--dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, out, "Ensure this value is less than or equal to 100.")
}
