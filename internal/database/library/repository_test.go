package library

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

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "library.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Account{}, &entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func createAccount(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	account := entities.Account{Username: username, PasswordHash: "hash"}
	require.NoError(t, db.Create(&account).Error)
	return account.ID
}

func strPtr(s string) *string { return &s }

func TestRepository_Get_EmptyLibrary(t *testing.T) {
	repo, db := setupTestDB(t)
	id := createAccount(t, db, "alice")

	lib, err := repo.Get(context.Background(), id)

	require.NoError(t, err)
	assert.Empty(t, lib.Books)
	assert.Equal(t, int64(0), lib.LastUpdated)
}

func TestRepository_Get_AccountNotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_Replace_PreservesOrderAndReturnsPrevious(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	id := createAccount(t, db, "alice")

	first := []entities.Book{
		{BookID: 1, Title: "First", CoverBlobID: strPtr("c1"), DataBlobID: strPtr("d1")},
	}
	previous, err := repo.Replace(ctx, id, first, 1000)
	require.NoError(t, err)
	assert.Empty(t, previous)

	second := []entities.Book{
		{BookID: 3, Title: "Third"},
		{BookID: 2, Title: "Second", CoverBlobID: strPtr("c2")},
	}
	previous, err = repo.Replace(ctx, id, second, 2000)
	require.NoError(t, err)
	require.Len(t, previous, 1)
	assert.Equal(t, int64(1), previous[0].BookID)
	assert.Equal(t, []string{"c1", "d1"}, previous[0].BlobIDs())

	lib, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, lib.Books, 2)
	assert.Equal(t, int64(3), lib.Books[0].BookID)
	assert.Equal(t, int64(2), lib.Books[1].BookID)
	assert.Equal(t, int64(2000), lib.LastUpdated)
}

func TestRepository_Replace_EmptyListClearsLibrary(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	id := createAccount(t, db, "alice")

	_, err := repo.Replace(ctx, id, []entities.Book{{BookID: 1, Title: "Only"}}, 10)
	require.NoError(t, err)

	_, err = repo.Replace(ctx, id, []entities.Book{}, 20)
	require.NoError(t, err)

	lib, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, lib.Books)
	assert.Equal(t, int64(20), lib.LastUpdated)
}

func TestRepository_Replace_AccountsAreIsolated(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	alice := createAccount(t, db, "alice")
	bob := createAccount(t, db, "bob")

	_, err := repo.Replace(ctx, alice, []entities.Book{{BookID: 1, Title: "A"}}, 10)
	require.NoError(t, err)
	_, err = repo.Replace(ctx, bob, []entities.Book{{BookID: 1, Title: "B"}}, 20)
	require.NoError(t, err)

	lib, err := repo.Get(ctx, alice)
	require.NoError(t, err)
	require.Len(t, lib.Books, 1)
	assert.Equal(t, "A", lib.Books[0].Title)
	assert.Equal(t, int64(10), lib.LastUpdated)
}

func TestRepository_Replace_AccountNotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Replace(context.Background(), 99, nil, 10)

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_Timestamp(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	id := createAccount(t, db, "alice")

	_, err := repo.Replace(ctx, id, nil, 1234)
	require.NoError(t, err)

	ts, err := repo.Timestamp(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), ts)

	_, err = repo.Timestamp(ctx, id+1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_ReferencedBlobIDs(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	alice := createAccount(t, db, "alice")
	bob := createAccount(t, db, "bob")

	_, err := repo.Replace(ctx, alice, []entities.Book{{BookID: 1, CoverBlobID: strPtr("c1"), DataBlobID: strPtr("d1")}}, 1)
	require.NoError(t, err)
	_, err = repo.Replace(ctx, bob, []entities.Book{{BookID: 1, DataBlobID: strPtr("d2")}}, 1)
	require.NoError(t, err)

	ids, err := repo.ReferencedBlobIDs(ctx)

	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "c1")
	assert.Contains(t, ids, "d1")
	assert.Contains(t, ids, "d2")
}
