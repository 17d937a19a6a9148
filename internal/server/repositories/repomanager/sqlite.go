package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophreg/internal/dbx"
	"github.com/dmitrijs2005/gophreg/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager is the SQLite counterpart of
// PostgresRepositoryManager, used for local runs and tests.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", "sqlite")
}

func NewSQLiteRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &SQLiteRepositoryManager{}, nil
}
