// Package server wires the registration service together: configuration,
// logging, the database and its migrations, the session store and the HTTP
// API, and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophreg/internal/logging"
	"github.com/dmitrijs2005/gophreg/internal/server/config"
	"github.com/dmitrijs2005/gophreg/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreg/internal/server/services"
	"github.com/dmitrijs2005/gophreg/internal/server/sessions"
	"github.com/redis/go-redis/v9"

	hs "github.com/dmitrijs2005/gophreg/internal/server/http"
)

const (
	initTimeout      = 30 * time.Second
	sweepInterval    = time.Minute
	redisSessionKeys = "gophreg:session:"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	rdb          *redis.Client
	sessions     sessions.Store
	memSessions  *sessions.MemoryStore
	registration *services.RegistrationService
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	if c.RedisAddr != "" {
		app.rdb = redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err := app.rdb.Ping(ctx).Err(); err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.sessions = sessions.NewRedisStore(app.rdb, redisSessionKeys, c.SessionTTL)
	} else {
		app.memSessions = sessions.NewMemoryStore(c.SessionTTL)
		app.sessions = app.memSessions
	}

	app.registration, err = services.NewRegistrationService(db, rm, c)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("registration service init error: %w", err)
	}

	return app, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.registration, app.sessions, app.db, hs.CookieConfig{
		Name:   app.config.SessionCookieName,
		Secure: app.config.SessionCookieSecure,
		TTL:    app.config.SessionTTL,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.memSessions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.memSessions.Run(ctx, sweepInterval)
		}()
	}

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}
