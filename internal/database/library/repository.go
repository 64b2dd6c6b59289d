// Package library stores each account's book list and its lastUpdated
// stamp. The account owns the list outright: a replace swaps the whole
// collection inside one transaction.
package library

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Duke0404/react-reader-backend/internal/entities"
)

var ErrAccountNotFound = errors.New("account not found")

// Repository handles library reads and full replaces.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new library repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func loadAccount(tx *gorm.DB, accountID uint) (*entities.Account, error) {
	var account entities.Account
	err := tx.Select("id", "last_updated").First(&account, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &account, nil
}

func loadBooks(tx *gorm.DB, accountID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := tx.Where("account_id = ?", accountID).Order("position ASC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	return books, nil
}

// Get returns the account's books in their stored order plus lastUpdated.
func (r *Repository) Get(ctx context.Context, accountID uint) (*entities.Library, error) {
	db := r.db.WithContext(ctx)

	account, err := loadAccount(db, accountID)
	if err != nil {
		return nil, err
	}

	books, err := loadBooks(db, accountID)
	if err != nil {
		return nil, err
	}

	return &entities.Library{Books: books, LastUpdated: account.LastUpdated}, nil
}

// Timestamp returns only lastUpdated, for cheap polling.
func (r *Repository) Timestamp(ctx context.Context, accountID uint) (int64, error) {
	account, err := loadAccount(r.db.WithContext(ctx), accountID)
	if err != nil {
		return 0, err
	}
	return account.LastUpdated, nil
}

// Replace swaps the account's whole book list and lastUpdated in one
// transaction and returns the books it replaced, so the caller can release
// their blobs once the commit is durable.
func (r *Repository) Replace(ctx context.Context, accountID uint, books []entities.Book, lastUpdated int64) ([]entities.Book, error) {
	var previous []entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadAccount(tx, accountID); err != nil {
			return err
		}

		var err error
		previous, err = loadBooks(tx, accountID)
		if err != nil {
			return err
		}

		if err := tx.Where("account_id = ?", accountID).Delete(&entities.Book{}).Error; err != nil {
			return fmt.Errorf("failed to clear books: %w", err)
		}

		if len(books) > 0 {
			rows := make([]entities.Book, len(books))
			for i, book := range books {
				book.ID = 0
				book.AccountID = accountID
				book.Position = i
				rows[i] = book
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return fmt.Errorf("failed to insert books: %w", err)
			}
		}

		err = tx.Model(&entities.Account{}).Where("id = ?", accountID).Update("last_updated", lastUpdated).Error
		if err != nil {
			return fmt.Errorf("failed to update timestamp: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// ReferencedBlobIDs returns every blob id any book still points at.
func (r *Repository) ReferencedBlobIDs(ctx context.Context) (map[string]struct{}, error) {
	var rows []struct {
		CoverBlobID *string
		DataBlobID  *string
	}
	err := r.db.WithContext(ctx).Model(&entities.Book{}).
		Select("cover_blob_id", "data_blob_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blob references: %w", err)
	}

	ids := make(map[string]struct{}, len(rows)*2)
	for _, row := range rows {
		if row.CoverBlobID != nil && *row.CoverBlobID != "" {
			ids[*row.CoverBlobID] = struct{}{}
		}
		if row.DataBlobID != nil && *row.DataBlobID != "" {
			ids[*row.DataBlobID] = struct{}{}
		}
	}
	return ids, nil
}
