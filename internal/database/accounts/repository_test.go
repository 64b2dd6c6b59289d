package accounts

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Duke0404/react-reader-backend/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "accounts.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.Account{}, &entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func TestRepository_Create(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	account, err := repo.Create(ctx, "alice", "hash")

	require.NoError(t, err)
	assert.NotZero(t, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, int64(0), account.LastUpdated)
}

func TestRepository_Create_DuplicateUsername(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "other-hash")

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRepository_GetByUsername(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	account, err := repo.GetByUsername(ctx, "alice")

	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)
	assert.Equal(t, "hash", account.PasswordHash)
}

func TestRepository_GetByUsername_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetByUsername(context.Background(), "nobody")

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_GetByID(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	account, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_UsernameExists(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	exists, err := repo.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	exists, err = repo.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}
