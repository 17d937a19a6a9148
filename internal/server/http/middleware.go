package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/logging"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/dmitrijs2005/gophreg/internal/server/sessions"
	"github.com/gin-gonic/gin"
)

const sessionKey = "registration_session"

func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// sessionMiddleware attaches the caller's registration session. Missing or
// unknown cookies get a fresh session; ids offered by clients are never
// adopted. The cookie is only written once a handler commits the session.
func (s *HTTPServer) sessionMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	var sess *models.RegistrationSession
	if id, err := c.Cookie(s.cookie.Name); err == nil && id != "" {
		loaded, err := s.sessions.Load(ctx, id)
		switch {
		case err == nil:
			sess = loaded
		case errors.Is(err, common.ErrSessionNotFound):
			s.logger.Debug(ctx, "session not found, starting new", "session", common.ShortRef(id))
		default:
			s.logger.Error(ctx, "load session", "session", common.ShortRef(id), "error", err)
			internalError(c)
			c.Abort()
			return
		}
	}

	if sess == nil {
		id, err := sessions.NewID()
		if err != nil {
			s.logger.Error(ctx, "new session id", "error", err)
			internalError(c)
			c.Abort()
			return
		}
		sess = models.NewRegistrationSession(id, time.Now())
	}

	c.Set(sessionKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) *models.RegistrationSession {
	return c.MustGet(sessionKey).(*models.RegistrationSession)
}

// commit stores the new session state and refreshes the cookie lifetime.
func (s *HTTPServer) commit(c *gin.Context, sess models.RegistrationSession) error {
	if err := s.sessions.Save(c.Request.Context(), &sess); err != nil {
		return err
	}
	s.setSessionCookie(c, sess.ID)
	return nil
}

func (s *HTTPServer) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie.Name, id, int(s.cookie.TTL.Seconds()), "/", "", s.cookie.Secure, true)
}

func (s *HTTPServer) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie.Name, "", -1, "/", "", s.cookie.Secure, true)
}
