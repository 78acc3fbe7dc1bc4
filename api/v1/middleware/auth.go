package middleware

import (
	"errors"
	"strings"

	"gift_catalog/internal/auth"
	"gift_catalog/internal/httpx"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthRequired
const (
	KeyUID   = "uid"
	KeyLogin = "login"
	KeyRole  = "role"
)

// AuthRequired is a middleware that validates the bearer token
func AuthRequired(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.FailErr(c, httpx.ErrUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				httpx.FailErr(c, httpx.ErrTokenExpired("token expired"))
			} else {
				httpx.FailErr(c, httpx.ErrInvalidToken("invalid token"))
			}
			c.Abort()
			return
		}

		c.Set(KeyUID, claims.UID)
		c.Set(KeyLogin, claims.Login)
		c.Set(KeyRole, claims.Role)

		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not one of roles.
// Must run after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(KeyRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httpx.FailErr(c, httpx.ErrForbidden("insufficient role"))
		c.Abort()
	}
}

// UserID returns the authenticated user id
func UserID(c *gin.Context) int64 {
	return c.GetInt64(KeyUID)
}

// Role returns the authenticated user role
func Role(c *gin.Context) string {
	return c.GetString(KeyRole)
}
