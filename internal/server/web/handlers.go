package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/csrf"
)

// startInputLayout matches the datetime-local input.
const startInputLayout = "2006-01-02T15:04"

func (s *Server) reservationList(c *gin.Context) {
	list, err := s.services.Reservations.ListUpcoming(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "reservation_list.html", gin.H{
		"Title":        "Réservations à venir",
		"Reservations": list,
	})
}

func (s *Server) reservationForm(c *gin.Context) {
	form := forms.ReservationForm{Start: s.prefillStart(c.Query("start"))}
	s.renderForm(c, "reservation_form.html", "Nouvelle réservation", form, forms.Errors{})
}

// prefillStart normalises the calendar's start parameter for the input.
// Values that do not parse are echoed as given.
func (s *Server) prefillStart(v string) string {
	if v == "" {
		return ""
	}
	t, err := forms.ParseDateTime(v, s.opts.Location)
	if err != nil {
		return v
	}
	return t.In(s.opts.Location).Format(startInputLayout)
}

func (s *Server) reservationCreate(c *gin.Context) {
	var form forms.ReservationForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		c.String(http.StatusBadRequest, "Bad Request (400)")
		return
	}

	r, err := s.services.Reservations.Create(c.Request.Context(), form)
	var fe forms.Errors
	switch {
	case errors.As(err, &fe):
		s.renderForm(c, "reservation_form.html", "Nouvelle réservation", form, fe)
	case err != nil:
		s.serverError(c, err)
	default:
		s.logger.Info(c.Request.Context(), "reservation created", "id", r.ID, "profile_id", r.ProfileID, requestIDKey, c.GetString(requestIDKey))
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (s *Server) logEntryForm(c *gin.Context) {
	s.renderForm(c, "logbook_form.html", "Enregistrer un vol", forms.LogEntryForm{}, forms.Errors{})
}

func (s *Server) logEntryCreate(c *gin.Context) {
	var form forms.LogEntryForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		c.String(http.StatusBadRequest, "Bad Request (400)")
		return
	}

	e, err := s.services.Logbook.Create(c.Request.Context(), form)
	var fe forms.Errors
	switch {
	case errors.As(err, &fe):
		s.renderForm(c, "logbook_form.html", "Enregistrer un vol", form, fe)
	case err != nil:
		s.serverError(c, err)
	default:
		s.logger.Info(c.Request.Context(), "log entry created", "id", e.ID, "pilot_id", e.PilotID, requestIDKey, c.GetString(requestIDKey))
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// renderForm renders a form page with the co-owner choices, the submitted
// values and per-field errors.
func (s *Server) renderForm(c *gin.Context, name, title string, form any, errs forms.Errors) {
	profiles, err := s.services.Profiles.List(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, name, gin.H{
		"Title":     title,
		"Form":      form,
		"Errors":    errs,
		"Profiles":  profiles,
		"CSRFField": csrf.TemplateField(c.Request),
	})
}

func (s *Server) logbookList(c *gin.Context) {
	ctx := c.Request.Context()

	entries, err := s.services.Logbook.List(ctx)
	if err != nil {
		s.serverError(c, err)
		return
	}
	summary, err := s.services.Logbook.Summary(ctx)
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "logbook_list.html", gin.H{
		"Title":   "Carnet de vol",
		"Entries": entries,
		"Summary": summary,
	})
}

func (s *Server) logbookExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.services.Logbook.WriteCSV(c.Request.Context(), &buf); err != nil {
		s.serverError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="logbook.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) reservationFeed(c *gin.Context) {
	events, err := s.services.Reservations.Feed(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}

	c.JSON(http.StatusOK, events)
}

func (s *Server) logbookSummary(c *gin.Context) {
	summary, err := s.services.Logbook.Summary(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":             summary.Entries,
		"total_flight_hours":  summary.TotalFlightHours.StringFixed(2),
		"latest_engine_hours": summary.LatestEngineHours.StringFixed(2),
	})
}

func (s *Server) health(c *gin.Context) {
	if err := s.services.DB.PingContext(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed",
		"error", err,
		"path", c.Request.URL.Path,
		requestIDKey, c.GetString(requestIDKey),
	)

	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.String(http.StatusInternalServerError, "Server Error (500)")
}
