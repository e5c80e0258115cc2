// Package dbtest opens throwaway migrated SQLite stores for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
)

// New returns a store over a private in-memory database that lives until
// the test ends.
func New(t testing.TB) *database.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database.NewStore(db)
}
