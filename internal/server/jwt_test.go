package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/challenge-solver/internal/config"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWTService()

	token, err := svc.GenerateToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token))
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := testJWTService()

	t.Run("empty token", func(t *testing.T) {
		assert.Error(t, svc.ValidateToken(""))
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Error(t, svc.ValidateToken("not.a.token"))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 1})
		token, err := other.GenerateToken()
		require.NoError(t, err)
		assert.Error(t, svc.ValidateToken(token))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwt.RegisteredClaims{
			Subject:   operatorSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		assert.Error(t, svc.ValidateToken(token))
	})

	t.Run("wrong subject", func(t *testing.T) {
		claims := &jwt.RegisteredClaims{
			Subject:   "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		assert.Error(t, svc.ValidateToken(token))
	})
}
