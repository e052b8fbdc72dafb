package sqlite_test

import (
	"database/sql"
	"testing"

	"github.com/vsinha/cpq/pkg/infrastructure/repositories/sqlite"
)

// setupTestDB creates an in-memory database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}
