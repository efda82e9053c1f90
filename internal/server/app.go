// Package server wires configuration, storage and the HTTP and gRPC health
// servers into one application and runs them until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ulmg70/internal/logging"
	"github.com/dmitrijs2005/ulmg70/internal/server/config"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ulmg70/internal/server/services"
	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/dmitrijs2005/ulmg70/internal/server/web"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/ulmg70/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	web    *web.Server
	health *gs.HealthServer
}

func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, err
	}

	loc, err := c.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}

	conn, dialect, err := db.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	clock := timex.RealClock{}
	rm := repomanager.NewSQLRepositoryManager(dialect, clock)
	if err := rm.RunMigrations(context.Background(), conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	if !c.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ws, err := web.NewServer(c.HTTPAddr, logger, web.Services{
		Reservations: services.NewReservationService(conn, rm, clock, loc),
		Logbook:      services.NewLogbookService(conn, rm, loc),
		Profiles:     services.NewProfileService(conn, rm, clock),
		DB:           conn,
	}, web.Options{
		AllowedHosts:    c.AllowedHosts,
		Location:        loc,
		SecretKey:       c.SecretKey,
		CookieSecure:    c.CookieSecure,
		ShutdownTimeout: c.ShutdownTimeout,
	})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	hs := gs.NewHealthServer(c.GRPCAddr, logger, conn, c.HealthCheckInterval)

	return &App{config: c, logger: logger, db: conn, web: ws, health: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a shutdown signal arrives or either
// server fails. The database is closed once both servers have stopped.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "http", app.config.HTTPAddr, "grpc", app.config.GRPCAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.web.Run(ctx); err != nil {
			app.logger.Error(ctx, "HTTP server failed", "error", err)
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.health.Run(ctx); err != nil {
			app.logger.Error(ctx, "gRPC server failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
