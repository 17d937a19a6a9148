// Package repomanager vends repository implementations for a SQL backend and
// applies that backend's embedded schema migrations with goose.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophreg/internal/dbx"
	"github.com/dmitrijs2005/gophreg/internal/filex"
	"github.com/dmitrijs2005/gophreg/internal/server/migrations"
	"github.com/dmitrijs2005/gophreg/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// runMigrations points goose at the embedded migrations and applies the
// ones under dir.
func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return err
	}
	return nil
}

// DriverForDSN picks the database/sql driver for a DSN: postgres URLs go
// to pgx, everything else is treated as a SQLite DSN.
func DriverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Open connects to the database named by dsn, checks the connection and
// returns it together with the matching RepositoryManager.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	driver := DriverForDSN(dsn)

	if driver == "sqlite" {
		if path := filex.SQLiteFilePath(dsn); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, nil, err
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}

	var m RepositoryManager
	if driver == "pgx" {
		m, err = NewPostgresRepositoryManager(db)
	} else {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		m, err = NewSQLiteRepositoryManager(db)
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, m, nil
}
