package middleware

import (
	"context"
	"net/http"

	"cityscope/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter پنجره‌ی شمارش درخواست برای هر منبع و هر کاربر
type Limiter interface {
	Allow(ctx context.Context, resource, id string) (bool, error)
}

// RateLimit limits requests per user (or per client ip when anonymous). A nil
// limiter disables the check; limiter errors let the request through.
func RateLimit(limiter Limiter, resource string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		id := c.GetString(UserIDKey)
		if id == "" {
			id = c.ClientIP()
		}

		allowed, err := limiter.Allow(c.Request.Context(), resource, id)
		if err != nil {
			logger.Warn("⚠️ rate limiter unavailable", zap.String("resource", resource), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": apperr.RateLimited().Message, "code": apperr.KindRateLimited})
			return
		}
		c.Next()
	}
}
