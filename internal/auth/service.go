package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Duke0404/react-reader-backend/internal/database/accounts"
	"github.com/Duke0404/react-reader-backend/internal/entities"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownAccount     = errors.New("account no longer exists")
)

// ValidationError is returned for input the client can correct. Its
// message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrCredentialsRequired = &ValidationError{Message: "Username and password are required"}
	ErrUsernameLength      = &ValidationError{Message: "Username must be between 3 and 64 characters"}
	ErrPasswordLength      = &ValidationError{Message: "Password must be at most 72 bytes"}
)

// AccountRepository is the credential storage the service needs.
type AccountRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*entities.Account, error)
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)
	GetByID(ctx context.Context, id uint) (*entities.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Service registers accounts and verifies credentials.
type Service struct {
	repo       AccountRepository
	bcryptCost int
}

// NewService creates a new credential service.
func NewService(repo AccountRepository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return ErrCredentialsRequired
	}
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrUsernameLength
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordLength
	}
	return nil
}

// Register creates an account and returns its id.
func (s *Service) Register(ctx context.Context, username, password string) (uint, error) {
	if err := validateCredentials(username, password); err != nil {
		return 0, err
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrUserExists
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	// the unique index settles concurrent registrations of the same name
	account, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, accounts.ErrUsernameTaken) {
			return 0, ErrUserExists
		}
		return 0, err
	}

	return account.ID, nil
}

// Verify checks a username/password pair and returns the account id.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Verify(ctx context.Context, username, password string) (uint, error) {
	if username == "" || password == "" {
		return 0, ErrCredentialsRequired
	}

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}

	if err := CheckPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("failed to compare password: %w", err)
	}

	return account.ID, nil
}

// Lookup confirms that a token's account still exists.
func (s *Service) Lookup(ctx context.Context, accountID uint) (*entities.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, err
	}
	return account, nil
}
