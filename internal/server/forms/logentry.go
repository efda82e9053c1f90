package forms

import (
	"database/sql"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

const aerodromeMaxLength = 50

// LogEntryForm is the logbook entry form.
type LogEntryForm struct {
	Pilot          string `form:"pilote"`
	FlightDuration string `form:"duree_vol"`
	EngineHours    string `form:"heures_moteur_total"`
	Departure      string `form:"aerodrome_depart"`
	Arrival        string `form:"aerodrome_arrivee"`
	Notes          string `form:"notes"`
}

// Clean validates the form and builds the entry. RecordedAt stays zero: the
// store stamps it on insert.
func (f LogEntryForm) Clean() (*models.LogEntry, Errors) {
	errs := Errors{}

	e := &models.LogEntry{
		PilotID:        cleanChoice(errs, "pilote", f.Pilot),
		FlightDuration: cleanDecimal(errs, "duree_vol", f.FlightDuration, true, 5, 2),
		EngineHours:    cleanDecimal(errs, "heures_moteur_total", f.EngineHours, true, 7, 2),
		Departure:      cleanText(errs, "aerodrome_depart", f.Departure, true, aerodromeMaxLength),
		Arrival:        cleanText(errs, "aerodrome_arrivee", f.Arrival, true, aerodromeMaxLength),
	}
	if notes := cleanText(errs, "notes", f.Notes, false, 0); notes != "" {
		e.Notes = sql.NullString{String: notes, Valid: true}
	}

	return e, errs
}
