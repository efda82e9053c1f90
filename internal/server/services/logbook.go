package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/archive"
	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/repomanager"
)

// Archiver stores a logbook snapshot and returns where it went.
type Archiver interface {
	Export(ctx context.Context, entries []*models.LogEntry) (string, error)
}

type LogbookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	loc         *time.Location
}

func NewLogbookService(db *sql.DB, m repomanager.RepositoryManager, loc *time.Location) *LogbookService {
	return &LogbookService{
		db:          db,
		repomanager: m,
		loc:         loc,
	}
}

// List returns the logbook newest first.
func (s *LogbookService) List(ctx context.Context) ([]*models.LogEntry, error) {
	list, err := s.repomanager.LogEntries(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing log entries: %w", err)
	}
	return list, nil
}

// Create validates form and stores the entry.
func (s *LogbookService) Create(ctx context.Context, form forms.LogEntryForm) (*models.LogEntry, error) {
	e, errs := form.Clean()

	var created *models.LogEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := checkProfile(ctx, s.repomanager, tx, errs, "pilote", e.PilotID); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		var err error
		created, err = s.repomanager.LogEntries(tx).Create(ctx, e)
		if err != nil {
			return fmt.Errorf("error creating log entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *LogbookService) Summary(ctx context.Context) (*models.LogbookSummary, error) {
	summary, err := s.repomanager.LogEntries(s.db).Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("error summarising logbook: %w", err)
	}
	return summary, nil
}

// WriteCSV writes the whole logbook to w.
func (s *LogbookService) WriteCSV(ctx context.Context, w io.Writer) error {
	list, err := s.List(ctx)
	if err != nil {
		return err
	}
	return archive.WriteCSV(w, list, s.loc)
}

// Archive hands the whole logbook to a and returns the stored object key.
func (s *LogbookService) Archive(ctx context.Context, a Archiver) (string, error) {
	list, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	return a.Export(ctx, list)
}
