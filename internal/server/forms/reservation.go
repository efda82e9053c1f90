package forms

import (
	"database/sql"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

const motiveMaxLength = 500

// ReservationForm is the reservation creation form. Field names are the
// ones posted by the page.
type ReservationForm struct {
	CoOwner string `form:"coproprietaire"`
	Start   string `form:"date_debut"`
	End     string `form:"date_fin"`
	Motive  string `form:"motif"`
}

// Clean validates the form and builds the reservation. Date/times are read
// in loc and stored in UTC. End may precede Start and overlaps are not
// checked. Whether CoOwner references an existing profile is up to the caller.
func (f ReservationForm) Clean(loc *time.Location) (*models.Reservation, Errors) {
	errs := Errors{}

	r := &models.Reservation{
		ProfileID: cleanChoice(errs, "coproprietaire", f.CoOwner),
		Start:     cleanDateTime(errs, "date_debut", f.Start, loc),
		End:       cleanDateTime(errs, "date_fin", f.End, loc),
	}
	if motive := cleanText(errs, "motif", f.Motive, false, motiveMaxLength); motive != "" {
		r.Motive = sql.NullString{String: motive, Valid: true}
	}

	return r, errs
}
