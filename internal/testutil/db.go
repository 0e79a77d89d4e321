// Package testutil содержит хелперы для тестов, которым нужна настоящая база.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/chatbot-api/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase поднимает SQLite во временной директории теста и создает схему
func NewDatabase(t testing.TB) *database.Database {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "chat.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDatabase(gdb)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return db
}
