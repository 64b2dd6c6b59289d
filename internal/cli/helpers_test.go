package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

func openSeeded(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
