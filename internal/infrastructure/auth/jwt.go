// Package auth verifies the bearer tokens issued by the identity
// provider. This service never issues tokens itself.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stitchpos/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingShopID    = errors.New("missing shop_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrWrongIssuer      = errors.New("token issued by unknown issuer")
)

// Claims are the JWT claims this service requires. ShopID scopes every
// request; a token without one cannot touch any data.
type Claims struct {
	jwt.RegisteredClaims
	ShopID   string `json:"shop_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Verifier validates access tokens signed with the shared HMAC secret
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a new token Verifier
func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Verify parses and validates a token, returning its claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrWrongIssuer
	}
	if claims.ShopID == "" {
		return nil, ErrMissingShopID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}
