package httpapi

import (
	"errors"
	"net/http"

	"cityscope/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusOf نگاشت نوع خطا به status code
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError store and upload causes go to the log, never to the client.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)

	message := "internal server error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("❌ request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", string(kind)),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": kind})
}
