package middleware

import (
	"strings"

	"rdq-api/internal/apperr"
	"rdq-api/internal/blacklist"
	"rdq-api/internal/httpx"
	"rdq-api/internal/models"
	"rdq-api/internal/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxToken     = "token"
	CtxExpiresAt = "token_expires_at"
)

// JWTAuth validates the Bearer token, rejects blacklisted tokens, and puts
// the caller's identity on the gin context.
func JWTAuth(ts token.TokenService, bl blacklist.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := extractBearer(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		if bl != nil {
			if err := bl.CheckToken(c.Request.Context(), raw); err != nil {
				httpx.Error(c, apperr.InvalidToken("token is no longer valid"))
				return
			}
		}

		claims, err := ts.ParseAccessToken(raw)
		if err != nil {
			httpx.Error(c, apperr.InvalidToken("invalid or expired token"))
			return
		}

		role := models.Role(claims.Role)
		if !role.Valid() {
			httpx.Error(c, apperr.InvalidToken("invalid or expired token"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, role)
		c.Set(CtxToken, raw)
		if claims.ExpiresAt != nil {
			c.Set(CtxExpiresAt, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// RequireRole gates a route group on a minimum role rank.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(CtxRole)
		if !exists {
			httpx.Error(c, apperr.InvalidToken("authentication required"))
			return
		}
		if !roleVal.(models.Role).AtLeast(min) {
			httpx.Error(c, apperr.AccessDenied("insufficient role for this operation"))
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user's id from the context.
func CallerID(c *gin.Context) uint {
	return c.MustGet(CtxUserID).(uint)
}

// CallerRole returns the authenticated user's role from the context.
func CallerRole(c *gin.Context) models.Role {
	return c.MustGet(CtxRole).(models.Role)
}

func extractBearer(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperr.InvalidToken("authorization header is missing")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", apperr.InvalidToken("invalid authorization header format")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" {
		return "", apperr.InvalidToken("token is missing")
	}
	return raw, nil
}
