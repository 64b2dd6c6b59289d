package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

// DefaultTokenExpiry applies when the configured expiry is not positive.
const DefaultTokenExpiry = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies signed account tokens.
type TokenService struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.Auth) *TokenService {
	expiry := cfg.TokenExpiry
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry is the lifetime of every issued token.
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// Issue signs a token for the account.
func (s *TokenService) Issue(accountID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(accountID), 10),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature, algorithm, expiry and issuer, and returns the
// account id from the subject. Every failure is ErrInvalidToken.
func (s *TokenService) Verify(token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return uint(id), nil
}
