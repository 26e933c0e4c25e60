// Package testdb opens a migrated in-memory database for package tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"salon-booking/internal/core/database"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
)

// Open returns a fresh SQLite :memory: database with every model migrated.
// A single connection keeps the in-memory schema alive for the whole test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, domain.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Store is Open wrapped in a repo.Store.
func Store(t testing.TB) *repo.Store {
	t.Helper()
	return repo.NewStore(Open(t))
}
