// Package accounts persists credentials: one row per username with its
// password hash.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	account, err := repo.GetByUsername(ctx, "alice")
package accounts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Duke0404/react-reader-backend/internal/entities"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username already taken")
)

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account. The unique index on username is the
// final arbiter, so concurrent registrations of one name yield exactly one
// winner and ErrUsernameTaken for the rest.
func (r *Repository) Create(ctx context.Context, username, passwordHash string) (*entities.Account, error) {
	account := &entities.Account{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// GetByUsername retrieves an account by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

// GetByID retrieves an account by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

// UsernameExists reports whether the username is already registered.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Account{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}
