package users

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var sqliteQueries = queries{
	create: `INSERT INTO users (id, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
	getByID:        `SELECT ` + selectColumns + ` FROM users WHERE id = ?`,
	getByFullName:  `SELECT ` + selectColumns + ` FROM users WHERE first_name = ? AND last_name = ?`,
	getByEmail:     `SELECT ` + selectColumns + ` FROM users WHERE email = ?`,
	getByPhone:     `SELECT ` + selectColumns + ` FROM users WHERE phone = ?`,
	updateEmail:    `UPDATE users SET email = ?, updated_at = ? WHERE id = ?`,
	updatePhone:    `UPDATE users SET phone = ?, updated_at = ? WHERE id = ?`,
	updatePassword: `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
}

// NewSQLiteRepository returns a Repository for modernc.org/sqlite.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return newSQLRepository(db, sqliteQueries, sqliteUniqueViolation)
}

// SQLite reports the offending columns rather than the constraint name,
// e.g. "UNIQUE constraint failed: users.email".
func sqliteUniqueViolation(err error) error {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) || sqlErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}

	msg := sqlErr.Error()
	switch {
	case strings.Contains(msg, "users.first_name"):
		return common.ErrDuplicateIdentity
	case strings.Contains(msg, "users.email"):
		return common.ErrDuplicateEmail
	case strings.Contains(msg, "users.phone"):
		return common.ErrDuplicatePhone
	default:
		return nil
	}
}
