package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stitchpos/backend/internal/infrastructure/auth"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// Context keys populated from verified token claims
const (
	ShopIDKey   = "shop_id"
	UserIDKey   = "user_id"
	UsernameKey = "username"
	RoleKey     = "role"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Verifier *auth.Verifier
	// SkipPaths bypass authentication entirely
	SkipPaths []string
	// SkipPathPrefixes bypass authentication by prefix
	SkipPathPrefixes []string
	// DevShopHeader accepts X-Shop-ID without a token. Development only.
	DevShopHeader bool
}

// JWTAuth verifies the bearer token and stashes its claims in the gin
// context. Every authenticated request is scoped to the token's shop.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		header := c.GetHeader(authHeaderKey)
		if header == "" {
			if cfg.DevShopHeader {
				if shopID := c.GetHeader("X-Shop-ID"); shopID != "" {
					c.Set(ShopIDKey, shopID)
					c.Next()
					return
				}
			}
			abortUnauthorized(c, "missing authorization header")
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "authorization header must use Bearer scheme")
			return
		}

		claims, err := cfg.Verifier.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "token has expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ShopIDKey, claims.ShopID)
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetShopID returns the authenticated shop ID, empty when unset
func GetShopID(c *gin.Context) string {
	return c.GetString(ShopIDKey)
}

// GetUserID returns the authenticated user ID, empty when unset
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
