package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "stitchpos-identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ShopID:   uuid.New().String(),
		UserID:   uuid.New().String(),
		Username: "cashier1",
		Role:     "cashier",
	}
}

func TestVerifier_Verify(t *testing.T) {
	verifier := NewVerifier(config.JWTConfig{Secret: testSecret, Issuer: "stitchpos-identity"})

	t.Run("accepts valid token", func(t *testing.T) {
		claims := validClaims()
		tokenString := signToken(t, claims, testSecret)

		got, err := verifier.Verify(tokenString)

		require.NoError(t, err)
		assert.Equal(t, claims.ShopID, got.ShopID)
		assert.Equal(t, claims.UserID, got.UserID)
		assert.Equal(t, "cashier1", got.Username)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		tokenString := signToken(t, validClaims(), "another-secret-another-secret-ab")

		_, err := verifier.Verify(tokenString)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		tokenString := signToken(t, claims, testSecret)

		_, err := verifier.Verify(tokenString)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "someone-else"
		tokenString := signToken(t, claims, testSecret)

		_, err := verifier.Verify(tokenString)

		assert.ErrorIs(t, err, ErrWrongIssuer)
	})

	t.Run("rejects missing shop_id", func(t *testing.T) {
		claims := validClaims()
		claims.ShopID = ""
		tokenString := signToken(t, claims, testSecret)

		_, err := verifier.Verify(tokenString)

		assert.ErrorIs(t, err, ErrMissingShopID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
