// Package sessions keeps registration sessions between requests. A session
// is addressed by an opaque random id that travels in a cookie.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
)

// idSize is the number of random bytes in a session id.
const idSize = 32

// Store persists registration sessions.
type Store interface {
	// Load returns common.ErrSessionNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (*models.RegistrationSession, error)
	// Save writes the session and restarts its time to live.
	Save(ctx context.Context, s *models.RegistrationSession) error
	// Destroy removes the session. Unknown ids are not an error.
	Destroy(ctx context.Context, id string) error
}

// NewID returns a fresh hex-encoded session id.
func NewID() (string, error) {
	return common.MakeRandHexString(idSize)
}
