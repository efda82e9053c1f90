// Package logentries stores the flight logbook.
package logentries

import (
	"context"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

type Repository interface {
	// Create stamps RecordedAt and stores the entry. An entry that already
	// carries a RecordedAt is refused with common.ErrRecordedAtSupplied.
	Create(ctx context.Context, e *models.LogEntry) (*models.LogEntry, error)
	// List returns the logbook newest first, pilot profile and account attached.
	List(ctx context.Context) ([]*models.LogEntry, error)
	Summary(ctx context.Context) (*models.LogbookSummary, error)
}
