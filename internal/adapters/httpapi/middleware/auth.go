package middleware

import (
	"net/http"
	"strings"

	"cityscope/internal/core/apperr"
	"cityscope/internal/ports/auth"

	"github.com/gin-gonic/gin"
)

// UserIDKey کلید شناسه‌ی کاربر در gin.Context
const UserIDKey = "userID"

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// JWTAuthMiddleware بدون توکن معتبر درخواست با 401 رد می‌شود
func JWTAuthMiddleware(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": apperr.KindUnauthenticated})
			return
		}
		userID, err := verifier.Verify(token)
		if err != nil {
			message := "invalid token"
			if appErr, ok := err.(*apperr.Error); ok {
				message = appErr.Message
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "code": apperr.KindUnauthenticated})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and ignores everything else.
func OptionalAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := verifier.Verify(token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}
