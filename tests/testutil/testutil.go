package testutil

import (
	"os"
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// OpenPostgres connects to TEST_DATABASE_URL, migrates it and empties every
// planner table. Tests are skipped when the variable is not set.
func OpenPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping test: TEST_DATABASE_URL is not set")
	}
	RequireTestEnvironment(t)

	db, err := config.ConnectDatabase(&config.Config{DatabaseURL: url, GoEnv: "test"}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	truncate := "TRUNCATE order_notes, furniture_items, orders, counters, users, supervisors, organizations RESTART IDENTITY CASCADE"
	if err := db.Exec(truncate).Error; err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
