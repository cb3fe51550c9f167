package db

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory sqlite database that lives as long as t.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Open(context.Background(), "sqlite:file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { Close(db) })
	return db
}
