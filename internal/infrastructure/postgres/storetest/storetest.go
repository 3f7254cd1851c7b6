// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := postgres.InitDB(config.Database{
		Driver: postgres.DriverSQLite,
		Dsn:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
