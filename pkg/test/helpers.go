package test

import (
	"log"
	"testing"

	"storefront/internal/adapter/database"
	"storefront/internal/adapter/database/sqlite"
	"storefront/pkg/config"
)

// InitTestDB opens a migrated in-memory sqlite database. The pool is
// capped at one connection so every query sees the same memory database.
func InitTestDB() *database.DB {
	db, err := sqlite.New(config.DatabaseConfig{Path: ":memory:"})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CleanDB empties every application table, children first.
func CleanDB(t *testing.T, db *database.DB) {
	t.Helper()

	for _, table := range []string{"products", "categories", "accounts"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}
