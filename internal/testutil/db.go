// Package testutil holds shared test fixtures.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ncastellanos/roadmapr-backend/internal/db"
)

// OpenTestDB opens an in-memory SQLite database migrated with the full schema.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// A second pool connection would see its own empty in-memory database.
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return conn
}
