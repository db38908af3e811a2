package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jpashop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars!"

func newTestTokenService() *TokenService {
	return NewTokenService(config.AuthConfig{
		Enabled:  true,
		Secret:   testSecret,
		Issuer:   "jpashop-test",
		TokenTTL: 15 * time.Minute,
	})
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{Secret: testSecret})
	assert.Equal(t, time.Hour, svc.ttl)
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService()

	token, expiresAt, err := svc.IssueToken("admin", ScopeWrite)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "jpashop-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.HasScope(ScopeWrite))
	assert.False(t, claims.HasScope("other"))
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	_, _, err := newTestTokenService().IssueToken("")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestTokenService_ValidateErrors(t *testing.T) {
	svc := newTestTokenService()

	t.Run("expired", func(t *testing.T) {
		token, _, err := svc.IssueToken("admin")
		require.NoError(t, err)

		later := newTestTokenService()
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err = later.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		early := newTestTokenService()
		early.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
		token, _, err := early.IssueToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService(config.AuthConfig{Secret: "another-secret-key-of-32-characters", Issuer: "jpashop-test"})
		token, _, err := other.IssueToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService(config.AuthConfig{Secret: testSecret, Issuer: "someone-else"})
		token, _, err := other.IssueToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    "jpashop-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
