// Package archive renders the logbook as CSV and ships it to S3-compatible
// object storage.
package archive

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

// Header is the first CSV record.
var Header = []string{
	"id", "recorded_at", "pilot", "departure", "arrival",
	"flight_duration", "engine_hours", "notes",
}

// WriteCSV writes entries in the order given, timestamps in loc.
func WriteCSV(w io.Writer, entries []*models.LogEntry, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.RecordedAt.In(loc).Format(time.RFC3339),
			e.PilotName(),
			e.Departure,
			e.Arrival,
			e.FlightDuration.StringFixed(2),
			e.EngineHours.StringFixed(2),
			e.Notes.String,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
