// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
)

// Open returns a migrated SQLite database stored under t.TempDir().
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tdesk.db")
	gdb, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(models.All()...))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection keeps every statement on the same SQLite handle.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

// DropTable removes a table to simulate a partially migrated schema.
func DropTable(t *testing.T, gdb *gorm.DB, table string) {
	t.Helper()
	require.NoError(t, gdb.Migrator().DropTable(table))
}
