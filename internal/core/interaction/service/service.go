package interactionapp

import (
	"context"
	"time"

	"cityscope/internal/core/apperr"
	postEntity "cityscope/internal/core/post"
	postapp "cityscope/internal/core/post/service"
	postPort "cityscope/internal/ports/post"
	userPort "cityscope/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// InteractionService لایک و کامنت روی پست‌ها
type InteractionService struct {
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	Projector      *postapp.Projector
	Logger         *zap.Logger

	Now   func() time.Time
	NewID func() uuid.UUID
}

func NewInteractionService(
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	projector *postapp.Projector,
	logger *zap.Logger,
) *InteractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InteractionService{
		PostRepository: postRepo,
		UserRepository: userRepo,
		Projector:      projector,
		Logger:         logger,
		Now:            time.Now,
		NewID:          func() uuid.UUID { return uuid.Must(uuid.NewV4()) },
	}
}

// ToggleLike لایک را اضافه یا حذف می‌کند؛ کل عملیات روی پست قفل‌شده انجام می‌شود
func (s *InteractionService) ToggleLike(ctx context.Context, postID, userID string) (*postPort.LikeResultDTO, error) {
	pid, uid, err := s.resolve(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	var liked bool
	p, err := s.PostRepository.Update(ctx, pid, func(p *postEntity.Post) error {
		liked = p.ToggleLike(uid, s.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Debug("toggled like", zap.String("postID", pid.String()), zap.String("userID", uid.String()), zap.Bool("liked", liked))
	return &postPort.LikeResultDTO{
		Liked:      liked,
		LikesCount: p.LikesCount(),
	}, nil
}

// AddComment content is validated before the store is touched.
func (s *InteractionService) AddComment(ctx context.Context, postID, userID, content string) (*postPort.CommentDTO, error) {
	if err := postEntity.ValidateCommentContent(content); err != nil {
		return nil, err
	}
	pid, uid, err := s.resolve(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	var added postEntity.Comment
	if _, err := s.PostRepository.Update(ctx, pid, func(p *postEntity.Post) error {
		c, err := p.AddComment(s.NewID(), uid, content, s.Now())
		if err != nil {
			return err
		}
		added = c
		return nil
	}); err != nil {
		return nil, err
	}

	return s.Projector.Comment(ctx, added)
}

func (s *InteractionService) resolve(ctx context.Context, postID, userID string) (uuid.UUID, uuid.UUID, error) {
	pid, err := uuid.FromString(postID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.NotFound("post", postID)
	}
	uid, err := uuid.FromString(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.NotFound("user", userID)
	}
	exists, err := s.UserRepository.Exists(ctx, uid)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, uuid.Nil, apperr.NotFound("user", uid)
	}
	return pid, uid, nil
}
