// Package testutil sets up throwaway databases for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"florist-backend/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to the test and
// installs it as database.DB for the duration of the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", seq.Add(1))
	db, err := database.Open(sqlite.Open(dsn), "silent")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db pool: %v", err)
	}
	// One connection keeps the in-memory database alive and avoids SQLite table locks.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}
