package models

import (
	"database/sql"
	"time"
)

// Reservation books the aircraft for one co-owner between Start and End.
// Overlaps with other reservations are allowed, and so is End before Start.
type Reservation struct {
	ID        int64
	ProfileID int64
	Start     time.Time
	End       time.Time
	Motive    sql.NullString

	Profile *Profile
}

// OwnerName is the username of the booking co-owner.
func (r *Reservation) OwnerName() string {
	return r.Profile.Username()
}

// CalendarEvent is one element of the calendar widget feed.
type CalendarEvent struct {
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	URL    string `json:"url"`
	AllDay bool   `json:"allDay"`
}
