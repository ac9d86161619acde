package httpapi

import (
	"net/http"

	"cityscope/internal/adapters/httpapi/middleware"
	"cityscope/internal/core/apperr"
	"cityscope/internal/core/post"
	postapp "cityscope/internal/core/post/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc            PostUseCase
	maxUploadSize int64
	logger        *zap.Logger
}

func NewPostController(pc PostUseCase, maxUploadSize int64, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, maxUploadSize: maxUploadSize, logger: logger}
}

// CreatePost multipart (content, type, location, images) یا JSON بدون تصویر
func (ctl *PostController) CreatePost(c *gin.Context) {
	in := postapp.CreatePostInput{AuthorID: c.GetString(middleware.UserIDKey)}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, ctl.logger, apperr.Validation("invalid multipart form"))
			return
		}
		in.Content = firstValue(form.Value, "content")
		in.Type = firstValue(form.Value, "type")
		in.Location = firstValue(form.Value, "location")

		images, err := readFiles(form.File["images"], post.MaxImages, ctl.maxUploadSize)
		if err != nil {
			writeError(c, ctl.logger, err)
			return
		}
		in.Images = images
	} else {
		var req struct {
			Content  string `json:"content"`
			Type     string `json:"type"`
			Location string `json:"location"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, ctl.logger, apperr.Validation("invalid input"))
			return
		}
		in.Content, in.Type, in.Location = req.Content, req.Type, req.Location
	}

	res, err := ctl.pc.CreatePost(c.Request.Context(), in)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	res, err := ctl.pc.GetPost(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMyPosts پست‌های کاربر جاری، جدیدترین اول
func (ctl *PostController) ListMyPosts(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	res, err := ctl.pc.ListPostsByAuthor(c.Request.Context(), userID, userID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": res})
}

func firstValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
