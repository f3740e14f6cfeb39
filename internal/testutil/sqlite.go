package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fatflowers/paygate/internal/platform/db"
)

// NewTestDB opens a migrated SQLite database in a per-test temp directory.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "paygate.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	gdb, err := db.Open(sqlite.Open(dsn), gormlogger.Discard)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
