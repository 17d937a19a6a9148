package users

import (
	"errors"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const selectColumns = `id, first_name, last_name, email, phone, password_hash, created_at, updated_at`

var postgresQueries = queries{
	create: `INSERT INTO users (id, first_name, last_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
	getByID:        `SELECT ` + selectColumns + ` FROM users WHERE id = $1`,
	getByFullName:  `SELECT ` + selectColumns + ` FROM users WHERE first_name = $1 AND last_name = $2`,
	getByEmail:     `SELECT ` + selectColumns + ` FROM users WHERE email = $1`,
	getByPhone:     `SELECT ` + selectColumns + ` FROM users WHERE phone = $1`,
	updateEmail:    `UPDATE users SET email = $1, updated_at = $2 WHERE id = $3`,
	updatePhone:    `UPDATE users SET phone = $1, updated_at = $2 WHERE id = $3`,
	updatePassword: `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
}

const pgUniqueViolation = "23505"

// NewPostgresRepository returns a Repository for PostgreSQL via pgx stdlib.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return newSQLRepository(db, postgresQueries, postgresUniqueViolation)
}

func postgresUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	return constraintError(pgErr.ConstraintName)
}

// constraintError maps a unique constraint name from the schema to its
// sentinel.
func constraintError(name string) error {
	switch name {
	case "users_full_name_key":
		return common.ErrDuplicateIdentity
	case "users_email_key":
		return common.ErrDuplicateEmail
	case "users_phone_key":
		return common.ErrDuplicatePhone
	default:
		return nil
	}
}
