// Package http exposes the registration workflow as a JSON API served by gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophreg/internal/logging"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/dmitrijs2005/gophreg/internal/server/sessions"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Registration is the workflow behind the API handlers.
type Registration interface {
	SetName(ctx context.Context, sess models.RegistrationSession, firstName, lastName string) (models.RegistrationSession, *models.User, error)
	SetEmail(ctx context.Context, sess models.RegistrationSession, email string) (models.RegistrationSession, error)
	SetPhone(ctx context.Context, sess models.RegistrationSession, phone string) (models.RegistrationSession, error)
	SetPassword(ctx context.Context, sess models.RegistrationSession, password string) (models.RegistrationSession, string, error)
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type HTTPServer struct {
	address      string
	registration Registration
	sessions     sessions.Store
	pinger       Pinger
	logger       logging.Logger
	cookie       CookieConfig
	engine       *gin.Engine
}

func NewHTTPServer(a string, l logging.Logger, reg Registration, st sessions.Store, p Pinger, cookie CookieConfig) *HTTPServer {
	s := &HTTPServer{
		address:      a,
		registration: reg,
		sessions:     st,
		pinger:       p,
		logger:       l.With("module", "http_server"),
		cookie:       cookie,
	}
	s.engine = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/health", s.health)
	r.GET("/docs/openapi.yaml", s.openAPI)

	api := r.Group("/api", s.sessionMiddleware)
	api.POST("/saveFullName", s.saveFullName)
	api.POST("/savefullname", s.saveFullName)
	api.POST("/saveEmail", s.saveEmail)
	api.POST("/savePhone", s.savePhone)
	api.POST("/savePassword", s.savePassword)

	return r
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
