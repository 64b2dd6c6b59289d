package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Duke0404/react-reader-backend/internal/entities"
)

// GormStore keeps blobs as rows in the primary database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(ctx context.Context, data []byte, filename string) (string, error) {
	if data == nil {
		data = []byte{}
	}
	blob := entities.Blob{
		ID:       uuid.NewString(),
		Filename: filename,
		Size:     int64(len(data)),
		Data:     data,
	}
	if err := s.db.WithContext(ctx).Create(&blob).Error; err != nil {
		return "", fmt.Errorf("failed to store blob: %w", err)
	}
	return blob.ID, nil
}

func (s *GormStore) Get(ctx context.Context, id string) ([]byte, error) {
	var blob entities.Blob
	err := s.db.WithContext(ctx).Select("id", "data").Where("id = ?", id).First(&blob).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load blob: %w", err)
	}
	return blob.Data, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Blob{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *GormStore) ListIDs(ctx context.Context, olderThan time.Time) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&entities.Blob{}).
		Where("created_at < ?", olderThan).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	return ids, nil
}

var (
	_ Store  = (*GormStore)(nil)
	_ Lister = (*GormStore)(nil)
)
