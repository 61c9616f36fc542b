// Package databasetest поднимает in-memory SQLite с настоящими миграциями для тестов.
package databasetest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/employee-api/internal/config"
	"github.com/employee-api/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLite возвращает мигрированную in-memory БД, закрываемую по окончании теста
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.Migrate(context.Background(), sqlDB, config.DriverSQLite, logger))

	return db
}
