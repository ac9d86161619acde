package postapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cityscope/internal/core/apperr"
	postEntity "cityscope/internal/core/post"
	"cityscope/internal/ports/media"
	postPort "cityscope/internal/ports/post"
	userPort "cityscope/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// CreatePostInput ورودی ساخت پست؛ AuthorID از توکن احراز هویت می‌آید
type CreatePostInput struct {
	AuthorID string
	Content  string
	Type     string
	Location string
	Images   []media.File
}

type PostService struct {
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	Uploader       media.Uploader
	Projector      *Projector
	Logger         *zap.Logger
	MaxUploadSize  int64

	Now   func() time.Time
	NewID func() uuid.UUID
}

func NewPostService(
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	uploader media.Uploader,
	projector *Projector,
	maxUploadSize int64,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		PostRepository: postRepo,
		UserRepository: userRepo,
		Uploader:       uploader,
		Projector:      projector,
		Logger:         logger,
		MaxUploadSize:  maxUploadSize,
		Now:            time.Now,
		NewID:          func() uuid.UUID { return uuid.Must(uuid.NewV4()) },
	}
}

// CreatePost اعتبارسنجی، آپلود تصاویر و در نهایت ذخیره‌ی پست
// Nothing is uploaded when validation fails and nothing is stored when an upload fails.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*postPort.PostDTO, error) {
	if err := postEntity.ValidateContent(in.Content); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, apperr.Validation("type is required")
	}
	typ, err := postEntity.ParseType(strings.TrimSpace(in.Type))
	if err != nil {
		return nil, err
	}
	if err := postEntity.ValidateImageCount(len(in.Images)); err != nil {
		return nil, err
	}
	for _, f := range in.Images {
		if err := media.ValidateImage(f, s.MaxUploadSize); err != nil {
			return nil, err
		}
	}

	authorID, err := uuid.FromString(in.AuthorID)
	if err != nil {
		return nil, apperr.NotFound("user", in.AuthorID)
	}
	exists, err := s.UserRepository.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user", authorID)
	}

	now := s.Now()
	urls, err := s.uploadImages(ctx, authorID, in.Images, now)
	if err != nil {
		return nil, err
	}

	p, err := postEntity.New(s.NewID(), authorID, in.Content, typ, in.Location, urls, now)
	if err != nil {
		return nil, err
	}
	if err := s.PostRepository.Create(ctx, p); err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			s.Logger.Error("❌ Failed to create post", zap.String("userID", authorID.String()), zap.Error(err))
		}
		return nil, err
	}

	s.Logger.Info("✅ Created post", zap.String("postID", p.ID.String()), zap.String("userID", authorID.String()), zap.Int("images", len(urls)))
	return s.Projector.Post(ctx, p, authorID)
}

// uploadImages تصاویر به ترتیب و به صورت بلوکینگ آپلود می‌شوند
func (s *PostService) uploadImages(ctx context.Context, authorID uuid.UUID, files []media.File, now time.Time) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := fmt.Sprintf("posts/%d-%s-%s%s", now.UnixMilli(), authorID, randomSuffix(s.NewID()), f.Ext())
		url, err := s.Uploader.Upload(ctx, key, f)
		if err != nil {
			s.Logger.Error("❌ Image upload failed", zap.String("key", key), zap.Error(err))
			return nil, apperr.UploadFailed(err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *PostService) GetPost(ctx context.Context, id, viewerID string) (*postPort.PostDTO, error) {
	postID, err := uuid.FromString(id)
	if err != nil {
		return nil, apperr.NotFound("post", id)
	}
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.Projector.Post(ctx, p, uuid.FromStringOrNil(viewerID))
}

// ListPostsByAuthor پست‌های یک نویسنده، جدیدترین اول
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]*postPort.PostDTO, error) {
	uid, err := uuid.FromString(authorID)
	if err != nil {
		return nil, apperr.NotFound("user", authorID)
	}
	posts, err := s.PostRepository.FindByAuthor(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.Projector.Posts(ctx, posts, uuid.FromStringOrNil(viewerID))
}

func randomSuffix(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
