package models

import "time"

// Stage is the registration state derived from the data a session holds.
type Stage int

const (
	StageEmpty Stage = iota
	StageHasName
	StageHasEmail
	StageHasPhone
	// StageFinalizing means a password hash is staged but the session has
	// not been destroyed yet, i.e. the client may not have its token.
	StageFinalizing
)

func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageHasName:
		return "has_name"
	case StageHasEmail:
		return "has_email"
	case StageHasPhone:
		return "has_phone"
	case StageFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// RegistrationSession is the typed session state of one client working
// through the registration steps. UserID is the only link to the durable
// record.
type RegistrationSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewRegistrationSession returns an empty session with the given id.
func NewRegistrationSession(id string, now time.Time) *RegistrationSession {
	return &RegistrationSession{ID: id, CreatedAt: now.UTC()}
}

// HasIdentity reports whether the session is correlated to a record.
func (s RegistrationSession) HasIdentity() bool {
	return s.UserID != ""
}

// Stage returns the furthest step the session has reached.
func (s RegistrationSession) Stage() Stage {
	switch {
	case !s.HasIdentity():
		return StageEmpty
	case s.PasswordHash != "":
		return StageFinalizing
	case s.Phone != "":
		return StageHasPhone
	case s.Email != "":
		return StageHasEmail
	default:
		return StageHasName
	}
}

// Restart drops everything collected so far and keeps only the session
// identity.
func (s RegistrationSession) Restart() RegistrationSession {
	return RegistrationSession{ID: s.ID, CreatedAt: s.CreatedAt}
}
