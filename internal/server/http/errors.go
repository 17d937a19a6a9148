package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/dmitrijs2005/gophreg/internal/server/services"
	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal Server Error"

// clientMessage maps workflow errors the caller can act on to their
// response text. ok is false for everything else.
func clientMessage(err error) (msg string, ok bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message(), true
	case errors.Is(err, common.ErrDuplicateIdentity):
		return "Full name already exists", true
	case errors.Is(err, common.ErrDuplicateEmail):
		return "Email already exists", true
	case errors.Is(err, common.ErrDuplicatePhone):
		return "Phone number already exists", true
	case errors.Is(err, common.ErrMissingIdentity):
		return "User ID not found in session", true
	default:
		return "", false
	}
}

// fail answers a failed step: 400 with a fixed message for client errors,
// 500 with a generic one otherwise.
func (s *HTTPServer) fail(c *gin.Context, step string, sess *models.RegistrationSession, err error) {
	ctx := c.Request.Context()

	if msg, ok := clientMessage(err); ok {
		s.logger.Warn(ctx, step+" rejected",
			"session", common.ShortRef(sess.ID), "stage", sess.Stage().String(), "user_id", sess.UserID, "reason", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	s.logger.Error(ctx, step+" failed",
		"session", common.ShortRef(sess.ID), "stage", sess.Stage().String(), "user_id", sess.UserID, "error", err)
	internalError(c)
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
}
