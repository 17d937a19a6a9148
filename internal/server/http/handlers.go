package http

import (
	"net/http"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/gin-gonic/gin"
)

type fullNameRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

// decodeBody reads the JSON body into a T. Malformed bodies decode to the
// zero value so that session errors still win over input errors.
func decodeBody[T any](c *gin.Context) T {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		var zero T
		return zero
	}
	return v
}

func (s *HTTPServer) health(c *gin.Context) {
	if err := s.pinger.PingContext(c.Request.Context()); err != nil {
		s.logger.Error(c.Request.Context(), "health check", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) saveFullName(c *gin.Context) {
	ctx := c.Request.Context()
	req := decodeBody[fullNameRequest](c)
	sess := currentSession(c)

	next, user, err := s.registration.SetName(ctx, *sess, req.FirstName, req.LastName)
	if err != nil {
		s.fail(c, "save full name", sess, err)
		return
	}

	if sess.HasIdentity() {
		s.logger.Warn(ctx, "registration restarted, previous record abandoned",
			"session", common.ShortRef(sess.ID), "previous_user_id", sess.UserID)
	}

	if err := s.commit(c, next); err != nil {
		s.fail(c, "save full name", sess, err)
		return
	}

	s.logger.Info(ctx, "full name saved", "session", common.ShortRef(next.ID), "stage", next.Stage().String(), "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Firstname and Lastname saved", "userId": user.ID})
}

func (s *HTTPServer) saveEmail(c *gin.Context) {
	ctx := c.Request.Context()
	req := decodeBody[emailRequest](c)
	sess := currentSession(c)

	next, err := s.registration.SetEmail(ctx, *sess, req.Email)
	if err != nil {
		s.fail(c, "save email", sess, err)
		return
	}

	if err := s.commit(c, next); err != nil {
		s.fail(c, "save email", sess, err)
		return
	}

	s.logger.Info(ctx, "email saved", "session", common.ShortRef(next.ID), "stage", next.Stage().String(), "user_id", next.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Email saved"})
}

func (s *HTTPServer) savePhone(c *gin.Context) {
	ctx := c.Request.Context()
	req := decodeBody[phoneRequest](c)
	sess := currentSession(c)

	next, err := s.registration.SetPhone(ctx, *sess, req.Phone)
	if err != nil {
		s.fail(c, "save phone", sess, err)
		return
	}

	if err := s.commit(c, next); err != nil {
		s.fail(c, "save phone", sess, err)
		return
	}

	s.logger.Info(ctx, "phone saved", "session", common.ShortRef(next.ID), "stage", next.Stage().String(), "user_id", next.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Phone number saved"})
}

// savePassword finishes the registration. The session is destroyed and the
// cookie cleared once the token is ready. If the session cannot be
// destroyed, the state with the staged hash is kept so that repeating the
// request returns a token without writing the password again.
func (s *HTTPServer) savePassword(c *gin.Context) {
	ctx := c.Request.Context()
	req := decodeBody[passwordRequest](c)
	sess := currentSession(c)

	next, token, err := s.registration.SetPassword(ctx, *sess, req.Password)
	if err != nil {
		if next.PasswordHash != sess.PasswordHash {
			s.keep(c, next)
		}
		s.fail(c, "save password", sess, err)
		return
	}

	if err := s.sessions.Destroy(ctx, next.ID); err != nil {
		s.keep(c, next)
		s.fail(c, "destroy session", sess, err)
		return
	}
	s.clearSessionCookie(c)

	s.logger.Info(ctx, "registration completed", "session", common.ShortRef(next.ID), "user_id", next.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Password saved", "token": token})
}

// keep saves state on a failure path; errors are only logged.
func (s *HTTPServer) keep(c *gin.Context, next models.RegistrationSession) {
	if err := s.commit(c, next); err != nil {
		s.logger.Error(c.Request.Context(), "keep session", "session", common.ShortRef(next.ID), "error", err)
	}
}
