package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/common"
	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/dmitrijs2005/ulmg70/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	clock *testutil.StubClock
	rm    *repomanager.SQLRepositoryManager
	loc   *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	clock := testutil.FixedClock()
	return &fixture{
		db:    testutil.NewTestDB(t),
		clock: clock,
		rm:    repomanager.NewSQLRepositoryManager(db.SQLite, clock),
		loc:   loc,
	}
}

func (f *fixture) reservations() *ReservationService {
	return NewReservationService(f.db, f.rm, f.clock, f.loc)
}

func (f *fixture) logbook() *LogbookService {
	return NewLogbookService(f.db, f.rm, f.loc)
}

func (f *fixture) profiles() *ProfileService {
	return NewProfileService(f.db, f.rm, f.clock)
}

func id(p *models.Profile) string {
	return strconv.FormatInt(p.ID, 10)
}

func formErrors(t *testing.T, err error) forms.Errors {
	t.Helper()
	var fe forms.Errors
	require.True(t, errors.As(err, &fe), "expected forms.Errors, got %v", err)
	return fe
}

func TestReservationService_CreateStoresUTC(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")

	r, err := f.reservations().Create(context.Background(), forms.ReservationForm{
		CoOwner: id(alice),
		Start:   "2024-07-01T09:00",
		End:     "2024-07-01T12:30",
		Motive:  "Local flight",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 1, 7, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC), r.End)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "reservations"))
}

func TestReservationService_CreateUnknownProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.reservations().Create(context.Background(), forms.ReservationForm{
		CoOwner: "42",
		Start:   "2024-07-01T09:00",
		End:     "2024-07-01T12:30",
	})
	fe := formErrors(t, err)
	assert.Equal(t, []string{forms.MsgInvalidChoice}, fe["coproprietaire"])
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "reservations"))
}

func TestReservationService_CreateReportsEveryField(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")

	_, err := f.reservations().Create(context.Background(), forms.ReservationForm{
		CoOwner: id(alice),
		Start:   "tomorrow",
	})
	fe := formErrors(t, err)
	assert.False(t, fe.Has("coproprietaire"))
	assert.Equal(t, []string{forms.MsgInvalidDate}, fe["date_debut"])
	assert.Equal(t, []string{forms.MsgRequired}, fe["date_fin"])
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "reservations"))
}

func TestReservationService_OverlapsAndInvertedRangesAccepted(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")
	bob := testutil.SeedProfile(t, f.db, "bob", "50")
	svc := f.reservations()
	ctx := context.Background()

	for _, form := range []forms.ReservationForm{
		{CoOwner: id(alice), Start: "2024-07-01T09:00", End: "2024-07-01T12:00"},
		{CoOwner: id(bob), Start: "2024-07-01T10:00", End: "2024-07-01T11:00"},
		{CoOwner: id(bob), Start: "2024-07-02T18:00", End: "2024-07-02T08:00"},
	} {
		_, err := svc.Create(ctx, form)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, testutil.CountRows(t, f.db, "reservations"))
}

func TestReservationService_ListUpcoming(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")
	svc := f.reservations()
	ctx := context.Background()

	// clock is 2024-06-15 12:30 in Paris
	for _, form := range []forms.ReservationForm{
		{CoOwner: id(alice), Start: "2024-06-20T09:00", End: "2024-06-20T10:00"},
		{CoOwner: id(alice), Start: "2024-06-15T08:00", End: "2024-06-15T12:00"},
		{CoOwner: id(alice), Start: "2024-06-15T11:00", End: "2024-06-15T12:30"},
		{CoOwner: id(alice), Start: "2024-06-16T09:00", End: "2024-06-16T10:00"},
	} {
		_, err := svc.Create(ctx, form)
		require.NoError(t, err)
	}

	list, err := svc.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-06-15T11:00", list[0].Start.In(f.loc).Format("2006-01-02T15:04"))
	assert.Equal(t, "2024-06-16T09:00", list[1].Start.In(f.loc).Format("2006-01-02T15:04"))
	assert.Equal(t, "2024-06-20T09:00", list[2].Start.In(f.loc).Format("2006-01-02T15:04"))
	assert.Equal(t, "alice", list[0].OwnerName())
}

func TestReservationService_Feed(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")
	svc := f.reservations()
	ctx := context.Background()

	events, err := svc.Feed(ctx)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)

	_, err = svc.Create(ctx, forms.ReservationForm{CoOwner: id(alice), Start: "2020-01-01T09:00", End: "2020-01-01T10:15:30"})
	require.NoError(t, err)

	events, err = svc.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.CalendarEvent{
		Title:  "Reserved by alice",
		Start:  "2020-01-01T09:00:00",
		End:    "2020-01-01T10:15:30",
		URL:    "/reservation/add/",
		AllDay: false,
	}, events[0])
}

func TestLogbookService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")
	svc := f.logbook()
	ctx := context.Background()

	first, err := svc.Create(ctx, forms.LogEntryForm{
		Pilot: id(alice), FlightDuration: "1.5", EngineHours: "100",
		Departure: "LFMD", Arrival: "LFTZ", Notes: "**Calm** air",
	})
	require.NoError(t, err)
	assert.True(t, f.clock.Now().Equal(first.RecordedAt))

	f.clock.Advance(time.Hour)
	_, err = svc.Create(ctx, forms.LogEntryForm{
		Pilot: id(alice), FlightDuration: "0.75", EngineHours: "100.75",
		Departure: "LFTZ", Arrival: "LFMD",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "LFTZ", list[0].Departure)
	assert.Equal(t, "**Calm** air", list[1].Notes.String)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Entries)
	assert.Equal(t, "2.25", summary.TotalFlightHours.StringFixed(2))
	assert.Equal(t, "100.75", summary.LatestEngineHours.StringFixed(2))
}

func TestLogbookService_CreateInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.logbook().Create(context.Background(), forms.LogEntryForm{
		Pilot: "7", FlightDuration: "abc", EngineHours: "1.234",
		Departure: "LFMD",
	})
	fe := formErrors(t, err)
	assert.Equal(t, []string{forms.MsgInvalidChoice}, fe["pilote"])
	assert.Equal(t, []string{forms.MsgInvalidNumber}, fe["duree_vol"])
	assert.True(t, fe.Has("heures_moteur_total"))
	assert.Equal(t, []string{forms.MsgRequired}, fe["aerodrome_arrivee"])
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "log_entries"))
}

type fakeArchiver struct {
	got []*models.LogEntry
}

func (a *fakeArchiver) Export(ctx context.Context, entries []*models.LogEntry) (string, error) {
	a.got = entries
	return "logbook/key.csv", nil
}

func TestLogbookService_Export(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedProfile(t, f.db, "alice", "50")
	svc := f.logbook()
	ctx := context.Background()

	_, err := svc.Create(ctx, forms.LogEntryForm{
		Pilot: id(alice), FlightDuration: "1", EngineHours: "10",
		Departure: "LFMD", Arrival: "LFMD",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(ctx, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "2024-06-15T12:30:00+02:00,alice,LFMD,LFMD,1.00,10.00,")

	a := &fakeArchiver{}
	key, err := svc.Archive(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "logbook/key.csv", key)
	assert.Len(t, a.got, 1)
}

func TestProfileService_RegisterListDelete(t *testing.T) {
	f := newFixture(t)
	svc := f.profiles()
	ctx := context.Background()

	bob, err := svc.Register(ctx, forms.ProfileForm{Username: "bob", Share: "40", License: "ULM-1234"})
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.Username())
	assert.Equal(t, "ULM-1234", bob.LicenseNumber.String)

	_, err = svc.Register(ctx, forms.ProfileForm{Username: "alice", Share: "60"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username())

	_, err = f.reservations().Create(ctx, forms.ReservationForm{CoOwner: id(bob), Start: "2024-07-01", End: "2024-07-02"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByUsername(ctx, "bob"))
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "profiles"))
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "reservations"))

	assert.ErrorIs(t, svc.DeleteByUsername(ctx, "bob"), common.ErrorNotFound)
}

func TestProfileService_RegisterRollsBack(t *testing.T) {
	f := newFixture(t)
	svc := f.profiles()
	ctx := context.Background()

	_, err := svc.Register(ctx, forms.ProfileForm{Username: "alice", Share: "50"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, forms.ProfileForm{Username: "alice", Share: "50"})
	require.Error(t, err)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "accounts"))

	_, err = svc.Register(ctx, forms.ProfileForm{Username: "", Share: "150"})
	fe := formErrors(t, err)
	assert.True(t, fe.Has("username"))
	assert.True(t, fe.Has("share"))
}
