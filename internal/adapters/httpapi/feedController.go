package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"cityscope/internal/adapters/httpapi/middleware"
	"cityscope/internal/core/apperr"
	"cityscope/internal/core/feed"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedController struct {
	fc              FeedUseCase
	defaultPageSize int
	logger          *zap.Logger
}

func NewFeedController(fc FeedUseCase, defaultPageSize int, logger *zap.Logger) *FeedController {
	return &FeedController{fc: fc, defaultPageSize: defaultPageSize, logger: logger}
}

// QueryFeed گرفتن type و location و page و pageSize از Query params و مقداردهی پیش‌فرض
func (ctl *FeedController) QueryFeed(c *gin.Context) {
	page, err := intParam(c.Query("page"), feed.DefaultPage, "page")
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}

	rawSize := c.Query("pageSize")
	if isAbsent(rawSize) {
		rawSize = c.Query("limit")
	}
	pageSize, err := intParam(rawSize, ctl.defaultPageSize, "pageSize")
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}

	res, err := ctl.fc.QueryFeed(c.Request.Context(), feed.Query{
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Page:     page,
		PageSize: pageSize,
		ViewerID: c.GetString(middleware.UserIDKey),
	})
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func isAbsent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "undefined"
}

func intParam(raw string, def int, name string) (int, error) {
	if isAbsent(raw) {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return n, nil
}
