package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LogEntry is one flight in the logbook. RecordedAt is assigned by the store
// when the entry is inserted; entries are never edited afterwards.
type LogEntry struct {
	ID             int64
	PilotID        int64
	FlightDuration decimal.Decimal
	EngineHours    decimal.Decimal
	RecordedAt     time.Time
	Departure      string
	Arrival        string
	Notes          sql.NullString

	Pilot *Profile
}

// PilotName is the username of the pilot.
func (e *LogEntry) PilotName() string {
	return e.Pilot.Username()
}

// LogbookSummary aggregates the whole logbook.
type LogbookSummary struct {
	Entries           int64
	TotalFlightHours  decimal.Decimal
	LatestEngineHours decimal.Decimal
}
