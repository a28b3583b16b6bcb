// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/db"
)

// Open returns a fresh, migrated in-memory SQLite database that is closed when t ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.DB{GormEngine: config.EngineSQLite, Name: ":memory:"}, false)
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.Migrate(context.Background(), gdb), "failed to migrate test database")

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})

	return gdb
}
