package httpapi

import (
	"context"
	"net/http"

	"cityscope/internal/adapters/httpapi/middleware"
	"cityscope/internal/core/feed"
	postapp "cityscope/internal/core/post/service"
	userapp "cityscope/internal/core/user/service"
	"cityscope/internal/ports/auth"
	"cityscope/internal/ports/media"
	postPort "cityscope/internal/ports/post"
	userPort "cityscope/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	RegisterUser(ctx context.Context, in userapp.RegisterInput) (*userPort.AuthResponse, error)
	LoginUser(ctx context.Context, identifier, password string) (*userPort.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*userPort.ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID string, bio *string, image *media.File) (*userPort.ProfileDTO, error)
	FindByHandle(ctx context.Context, username string) (*userPort.SummaryDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, in postapp.CreatePostInput) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, id, viewerID string) (*postPort.PostDTO, error)
	ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]*postPort.PostDTO, error)
}

type FeedUseCase interface {
	QueryFeed(ctx context.Context, q feed.Query) (*postPort.FeedPageDTO, error)
}

type InteractionUseCase interface {
	ToggleLike(ctx context.Context, postID, userID string) (*postPort.LikeResultDTO, error)
	AddComment(ctx context.Context, postID, userID, content string) (*postPort.CommentDTO, error)
}

// Options تنظیمات روتر که از config می‌آیند
type Options struct {
	Verifier        auth.TokenVerifier
	Limiter         middleware.Limiter
	Logger          *zap.Logger
	MaxUploadSize   int64
	DefaultPageSize int
	// MediaDir served under /media when set (disk media backend).
	MediaDir string
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	feedUC FeedUseCase,
	interactionUC InteractionUseCase,
	opts Options,
) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = feed.DefaultPageSize
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.RequestLogger(logger))
	if opts.MaxUploadSize > 0 {
		r.MaxMultipartMemory = opts.MaxUploadSize
	}

	uc := NewUserController(userUC, opts.MaxUploadSize, logger)
	pc := NewPostController(postUC, opts.MaxUploadSize, logger)
	fc := NewFeedController(feedUC, opts.DefaultPageSize, logger)
	ic := NewInteractionController(interactionUC, logger)

	required := middleware.JWTAuthMiddleware(opts.Verifier)
	optional := middleware.OptionalAuth(opts.Verifier)
	limit := func(resource string) gin.HandlerFunc {
		return middleware.RateLimit(opts.Limiter, resource, logger)
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	users := r.Group("/users")
	users.POST("/signup", limit("signup"), uc.RegisterUser)
	users.POST("/login", limit("login"), uc.LoginUser)
	users.GET("/authenticate", required, uc.Authenticate)
	users.GET("/profile", required, uc.GetProfile)
	users.PUT("/profile", required, limit("profile"), uc.UpdateProfile)
	users.GET("/:username", uc.FindByHandle)

	posts := r.Group("/posts")
	posts.POST("", required, limit("post"), pc.CreatePost)
	posts.GET("", optional, fc.QueryFeed)
	posts.GET("/mine", required, pc.ListMyPosts)
	posts.GET("/:id", optional, pc.GetPost)
	posts.POST("/:id/like", required, limit("like"), ic.ToggleLike)
	posts.POST("/:id/comment", required, limit("comment"), ic.AddComment)

	return r
}
