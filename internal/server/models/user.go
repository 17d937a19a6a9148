// Package models defines the server-side data: the durable user record and
// the ephemeral registration session.
package models

import "time"

// User is the durable registration record. Email, Phone and PasswordHash
// stay empty until the matching workflow step stores them.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
