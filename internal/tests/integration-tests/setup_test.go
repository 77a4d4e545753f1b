package integration_tests

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gptlink/internal/database"
)

// openDB returns a migrated database in a per-test directory. dir lets a
// test reopen the same file to simulate a restart.
func openDB(t *testing.T, dir string) *gorm.DB {
	t.Helper()
	db, err := database.Init(database.Config{Path: filepath.Join(dir, "gptlink.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
