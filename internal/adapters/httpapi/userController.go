package httpapi

import (
	"net/http"

	"cityscope/internal/adapters/httpapi/middleware"
	"cityscope/internal/core/apperr"
	userapp "cityscope/internal/core/user/service"
	"cityscope/internal/ports/media"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	uc            UserUseCase
	maxUploadSize int64
	logger        *zap.Logger
}

func NewUserController(uc UserUseCase, maxUploadSize int64, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, maxUploadSize: maxUploadSize, logger: logger}
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ctl.logger, apperr.Validation("invalid input"))
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Mobile
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), identifier, req.Password)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ctl.logger, apperr.Validation("invalid input"))
		return
	}
	if req.Username == "" || req.Mobile == "" || req.Password == "" {
		writeError(c, ctl.logger, apperr.Validation("all fields are required"))
		return
	}
	res, err := ctl.uc.RegisterUser(c.Request.Context(), userapp.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *UserController) Authenticate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Authenticated"})
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	res, err := ctl.uc.GetProfile(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateProfile multipart (bio, profilePic) یا JSON فقط با bio
func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var (
		bio   *string
		image *media.File
	)

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, ctl.logger, apperr.Validation("invalid multipart form"))
			return
		}
		if v, ok := form.Value["bio"]; ok && len(v) > 0 {
			bio = &v[0]
		}
		files, err := readFiles(form.File["profilePic"], 1, ctl.maxUploadSize)
		if err != nil {
			writeError(c, ctl.logger, err)
			return
		}
		if len(files) == 1 {
			image = &files[0]
		}
	} else {
		var req struct {
			Bio *string `json:"bio"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, ctl.logger, apperr.Validation("invalid input"))
			return
		}
		bio = req.Bio
	}

	res, err := ctl.uc.UpdateProfile(c.Request.Context(), c.GetString(middleware.UserIDKey), bio, image)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": res})
}

// FindByHandle جستجوی کاربر با یوزرنیم
func (ctl *UserController) FindByHandle(c *gin.Context) {
	res, err := ctl.uc.FindByHandle(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
