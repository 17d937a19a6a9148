// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophreg/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewSQLiteDB opens a private in-memory SQLite database with the schema
// migrated. It is closed when the test ends.
func NewSQLiteDB(t testing.TB) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()

	db, m, err := repomanager.Open(context.Background(), "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db, m
}
