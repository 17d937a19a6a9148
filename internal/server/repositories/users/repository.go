// Package users is the record store of registered users. One SQL
// implementation serves PostgreSQL and SQLite; the dialect only decides
// placeholders and how unique violations are recognized.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophreg/internal/server/models"
)

// Repository reads and writes user records.
//
// Lookups return common.ErrorNotFound when no row matches. Writes that hit
// a unique index return common.ErrDuplicateIdentity, common.ErrDuplicateEmail
// or common.ErrDuplicatePhone.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByFullName(ctx context.Context, firstName, lastName string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePhone(ctx context.Context, id, phone string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
