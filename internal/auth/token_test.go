package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

func newTestTokens(cfg config.Auth) *TokenService {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}
	return NewTokenService(cfg)
}

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := newTestTokens(config.Auth{})

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, DefaultTokenExpiry, tokens.Expiry())
}

func TestTokenService_Expired(t *testing.T) {
	tokens := newTestTokens(config.Auth{TokenExpiry: time.Hour})
	issuedAt := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issuedAt }

	token, err := tokens.Issue(1)
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := newTestTokens(config.Auth{JWTSecret: "one"}).Issue(1)
	require.NoError(t, err)

	_, err = newTestTokens(config.Auth{JWTSecret: "two"}).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_IssuerMismatch(t *testing.T) {
	token, err := newTestTokens(config.Auth{JWTIssuer: "other"}).Issue(1)
	require.NoError(t, err)

	_, err = newTestTokens(config.Auth{JWTIssuer: "reader-sync"}).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsUnsignedAndMalformed(t *testing.T) {
	tokens := newTestTokens(config.Auth{})

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":       "",
		"garbage":     "not.a.token",
		"alg none":    unsigned,
		"no expiry":   noExpiry,
		"bad subject": badSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
