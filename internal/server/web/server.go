// Package web serves the reservation calendar and flight logbook pages and
// their JSON endpoints over gin.
package web

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/logging"
	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

type ReservationService interface {
	ListUpcoming(ctx context.Context) ([]*models.Reservation, error)
	Create(ctx context.Context, form forms.ReservationForm) (*models.Reservation, error)
	Feed(ctx context.Context) ([]models.CalendarEvent, error)
}

type LogbookService interface {
	List(ctx context.Context) ([]*models.LogEntry, error)
	Create(ctx context.Context, form forms.LogEntryForm) (*models.LogEntry, error)
	Summary(ctx context.Context) (*models.LogbookSummary, error)
	WriteCSV(ctx context.Context, w io.Writer) error
}

type ProfileLister interface {
	List(ctx context.Context) ([]*models.Profile, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Services struct {
	Reservations ReservationService
	Logbook      LogbookService
	Profiles     ProfileLister
	DB           Pinger
}

type Options struct {
	AllowedHosts    []string
	Location        *time.Location
	SecretKey       string
	CookieSecure    bool
	ShutdownTimeout time.Duration
}

type Server struct {
	address  string
	logger   logging.Logger
	services Services
	opts     Options
	engine   *gin.Engine
	handler  http.Handler
}

func NewServer(address string, logger logging.Logger, services Services, opts Options) (*Server, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	tmpl, err := parseTemplates(opts.Location)
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	s := &Server{address: address, logger: logger, services: services, opts: opts}

	s.engine = gin.New()
	s.engine.Use(requestLogger(logger), gin.Recovery(), allowedHosts(opts.AllowedHosts, logger))
	s.engine.SetHTMLTemplate(tmpl)
	s.routes()

	s.handler = s.protect(s.engine)

	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.reservationList)
	s.engine.GET("/reservation/add/", s.reservationForm)
	s.engine.POST("/reservation/add/", s.reservationCreate)
	s.engine.GET("/healthz", s.health)

	logbook := s.engine.Group("/logbook")
	{
		logbook.GET("/", s.logbookList)
		logbook.GET("/add/", s.logEntryForm)
		logbook.POST("/add/", s.logEntryCreate)
		logbook.GET("/export.csv", s.logbookExport)
	}

	api := s.engine.Group("/api")
	{
		api.GET("/reservations/", s.reservationFeed)
		api.GET("/logbook/summary/", s.logbookSummary)
	}
}

// protect wraps h with CSRF checks on unsafe methods, keyed by the secret.
// Plain HTTP requests are marked as such unless cookies are secure-only.
func (s *Server) protect(h http.Handler) http.Handler {
	key := sha256.Sum256([]byte(s.opts.SecretKey))
	inner := csrf.Protect(key[:],
		csrf.Secure(s.opts.CookieSecure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(s.csrfFailure)),
	)(h)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && !s.opts.CookieSecure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		inner.ServeHTTP(w, r)
	})
}

func (s *Server) csrfFailure(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn(r.Context(), "csrf verification failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden (403): CSRF verification failed. Request aborted.", http.StatusForbidden)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server started", "address", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		timeout := s.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP shutdown: %w", err)
		}
		return nil
	}
}
