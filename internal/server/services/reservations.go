package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/common"
	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
)

const (
	// FeedTimeLayout formats feed timestamps in local time without offset.
	FeedTimeLayout = "2006-01-02T15:04:05"
	// FeedEventURL is where a calendar click leads.
	FeedEventURL = "/reservation/add/"
)

type ReservationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	loc         *time.Location
}

func NewReservationService(db *sql.DB, m repomanager.RepositoryManager, clock timex.Clock, loc *time.Location) *ReservationService {
	return &ReservationService{
		db:          db,
		repomanager: m,
		clock:       clock,
		loc:         loc,
	}
}

// ListUpcoming returns reservations that have not ended yet, earliest first.
func (s *ReservationService) ListUpcoming(ctx context.Context) ([]*models.Reservation, error) {
	list, err := s.repomanager.Reservations(s.db).ListEndingFrom(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	return list, nil
}

// Create validates form and stores the reservation. Invalid input is
// returned as forms.Errors and nothing is written.
func (s *ReservationService) Create(ctx context.Context, form forms.ReservationForm) (*models.Reservation, error) {
	r, errs := form.Clean(s.loc)

	var created *models.Reservation
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := checkProfile(ctx, s.repomanager, tx, errs, "coproprietaire", r.ProfileID); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		var err error
		created, err = s.repomanager.Reservations(tx).Create(ctx, r)
		if err != nil {
			return fmt.Errorf("error creating reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Feed returns every reservation as a calendar event. The result is never nil.
func (s *ReservationService) Feed(ctx context.Context) ([]models.CalendarEvent, error) {
	list, err := s.repomanager.Reservations(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(list))
	for _, r := range list {
		events = append(events, models.CalendarEvent{
			Title:  "Reserved by " + r.OwnerName(),
			Start:  r.Start.In(s.loc).Format(FeedTimeLayout),
			End:    r.End.In(s.loc).Format(FeedTimeLayout),
			URL:    FeedEventURL,
			AllDay: false,
		})
	}

	return events, nil
}

// checkProfile adds an invalid choice message to field when id names no
// profile. Fields that already failed cleaning are left alone.
func checkProfile(ctx context.Context, rm repomanager.RepositoryManager, tx dbx.DBTX, errs forms.Errors, field string, id int64) error {
	if errs.Has(field) {
		return nil
	}
	_, err := rm.Profiles(tx).GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		errs.Add(field, forms.MsgInvalidChoice)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error loading profile: %w", err)
	}
	return nil
}
