package httpapi

import (
	"net/http"

	"cityscope/internal/adapters/httpapi/middleware"
	"cityscope/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InteractionController struct {
	ic     InteractionUseCase
	logger *zap.Logger
}

func NewInteractionController(ic InteractionUseCase, logger *zap.Logger) *InteractionController {
	return &InteractionController{ic: ic, logger: logger}
}

func (ctl *InteractionController) ToggleLike(c *gin.Context) {
	res, err := ctl.ic.ToggleLike(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}

	action := "unlike"
	if res.Liked {
		action = "like"
	}
	middleware.InteractionsTotal.WithLabelValues(action).Inc()
	c.JSON(http.StatusOK, res)
}

func (ctl *InteractionController) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}

	// اعتبارسنجی JSON ورودی
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ctl.logger, apperr.Validation("invalid input"))
		return
	}

	comment, err := ctl.ic.AddComment(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey), req.Content)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}

	middleware.InteractionsTotal.WithLabelValues("comment").Inc()
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
