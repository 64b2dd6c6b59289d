package blobstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Duke0404/react-reader-backend/internal/config"
	"github.com/Duke0404/react-reader-backend/internal/entities"
)

func setupGormStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "blobs.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Blob{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewGormStore(db), db
}

func TestHandle_NotInitialized(t *testing.T) {
	h := NewHandle()
	ctx := context.Background()

	assert.False(t, h.Ready())

	_, err := h.Put(ctx, []byte("x"), "x.bin")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = h.Get(ctx, "id")
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, h.Delete(ctx, "id"), ErrNotInitialized)

	_, err = h.ListIDs(ctx, time.Now())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestHandle_InitTwice(t *testing.T) {
	store, _ := setupGormStore(t)
	h := NewHandle()

	require.NoError(t, h.Init(store, "gorm"))
	assert.True(t, h.Ready())
	assert.ErrorIs(t, h.Init(store, "gorm"), ErrAlreadyInitialized)
}

func TestHandle_EmptyID(t *testing.T) {
	store, _ := setupGormStore(t)
	h := NewHandle()
	require.NoError(t, h.Init(store, "gorm"))

	_, err := h.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, h.Delete(context.Background(), ""))
}

type putOnlyStore struct{}

func (putOnlyStore) Put(context.Context, []byte, string) (string, error) { return "id", nil }
func (putOnlyStore) Get(context.Context, string) ([]byte, error)         { return nil, ErrNotFound }
func (putOnlyStore) Delete(context.Context, string) error                { return nil }

func TestHandle_ListNotSupported(t *testing.T) {
	h := NewHandle()
	require.NoError(t, h.Init(putOnlyStore{}, "memory"))

	_, err := h.ListIDs(context.Background(), time.Now())

	assert.True(t, errors.Is(err, ErrListNotSupported))
}

func TestGormStore_RoundTrip(t *testing.T) {
	store, _ := setupGormStore(t)
	ctx := context.Background()

	id1, err := store.Put(ctx, []byte("cover bytes"), "cover-1.jpg")
	require.NoError(t, err)
	id2, err := store.Put(ctx, []byte("cover bytes"), "cover-1.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2, "identical content must get distinct ids")

	data, err := store.Get(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, []byte("cover bytes"), data)

	require.NoError(t, store.Delete(ctx, id1))
	_, err = store.Get(ctx, id1)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again is fine
	assert.NoError(t, store.Delete(ctx, id1))

	data, err = store.Get(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, []byte("cover bytes"), data)
}

func TestGormStore_EmptyPayload(t *testing.T) {
	store, _ := setupGormStore(t)
	ctx := context.Background()

	id, err := store.Put(ctx, []byte{}, "")
	require.NoError(t, err)

	data, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestGormStore_ListIDs(t *testing.T) {
	store, db := setupGormStore(t)
	ctx := context.Background()

	old := entities.Blob{ID: "old", Data: []byte("a"), CreatedAt: time.Now().Add(-2 * time.Hour)}
	require.NoError(t, db.Create(&old).Error)
	fresh, err := store.Put(ctx, []byte("b"), "")
	require.NoError(t, err)

	ids, err := store.ListIDs(ctx, time.Now().Add(-time.Hour))

	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)
	assert.NotContains(t, ids, fresh)
}

func TestOpenHandle_Gorm(t *testing.T) {
	_, db := setupGormStore(t)

	h, err := OpenHandle(context.Background(), config.BlobStore{Backend: config.BlobBackendGorm}, db)
	require.NoError(t, err)
	assert.True(t, h.Ready())

	id, err := h.Put(context.Background(), []byte("x"), "x.bin")
	require.NoError(t, err)
	data, err := h.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.BlobStore{Backend: "ftp"}, nil)

	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}
