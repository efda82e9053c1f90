package logentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/common"
	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
	"github.com/shopspring/decimal"
)

type SQLRepository struct {
	db    dbx.DBTX
	clock timex.Clock
}

func NewSQLRepository(db dbx.DBTX, clock timex.Clock) *SQLRepository {
	return &SQLRepository{db: db, clock: clock}
}

func (r *SQLRepository) Create(ctx context.Context, e *models.LogEntry) (*models.LogEntry, error) {
	if !e.RecordedAt.IsZero() {
		return nil, common.ErrRecordedAtSupplied
	}

	query :=
		`INSERT INTO log_entries (pilot_id, flight_duration, engine_hours, recorded_at, departure, arrival, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`

	recordedAt := r.clock.Now().UTC().Truncate(time.Microsecond)

	err := r.db.QueryRowContext(ctx, query,
		e.PilotID, e.FlightDuration, e.EngineHours, recordedAt, e.Departure, e.Arrival, e.Notes).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	e.RecordedAt = recordedAt

	return e, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.LogEntry, error) {
	query := `SELECT l.id, l.pilot_id, l.flight_duration, l.engine_hours, l.recorded_at,
		 l.departure, l.arrival, l.notes, ` + profiles.JoinedColumns + `
		 FROM log_entries l
		 ` + profiles.JoinClause("l.pilot_id") + `
		 ORDER BY l.recorded_at DESC, l.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.LogEntry{}
	for rows.Next() {
		e := &models.LogEntry{}
		var j profiles.Joined
		dest := append([]any{&e.ID, &e.PilotID, &e.FlightDuration, &e.EngineHours, &e.RecordedAt,
			&e.Departure, &e.Arrival, &e.Notes}, j.Dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.RecordedAt = e.RecordedAt.UTC()
		e.Pilot = j.Profile()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Summary totals the logbook. Engine hours are cumulative, so the latest
// figure is the one on the most recent entry; an empty logbook reports zero.
func (r *SQLRepository) Summary(ctx context.Context) (*models.LogbookSummary, error) {
	s := &models.LogbookSummary{}

	var total decimal.NullDecimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(flight_duration) FROM log_entries`).Scan(&s.Entries, &total)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.TotalFlightHours = total.Decimal.Round(2)

	err = r.db.QueryRowContext(ctx,
		`SELECT engine_hours FROM log_entries
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT 1`).Scan(&s.LatestEngineHours)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}
