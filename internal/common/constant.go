package common

import "time"

// DefaultSessionCookieName is the cookie that carries the registration
// session id when the configuration does not override it.
const DefaultSessionCookieName = "sessionID"

// DefaultTokenValidity is the lifetime of a token issued on completion.
const DefaultTokenValidity = time.Hour

// DefaultBcryptCost is the work factor used for password hashing.
const DefaultBcryptCost = 12
