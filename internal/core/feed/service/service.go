package feedapp

import (
	"context"

	"cityscope/internal/core/feed"
	postapp "cityscope/internal/core/post/service"
	postPort "cityscope/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// FeedService کوئری فید با فیلتر نوع و مکان و صفحه‌بندی
type FeedService struct {
	PostRepository postPort.PostRepository
	Projector      *postapp.Projector
	MaxPageSize    int
	Logger         *zap.Logger
}

func NewFeedService(postRepo postPort.PostRepository, projector *postapp.Projector, maxPageSize int, logger *zap.Logger) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxPageSize <= 0 {
		maxPageSize = feed.MaxPageSize
	}
	return &FeedService{
		PostRepository: postRepo,
		Projector:      projector,
		MaxPageSize:    maxPageSize,
		Logger:         logger,
	}
}

// QueryFeed Page and PageSize are taken as given; callers apply defaults for absent values.
func (s *FeedService) QueryFeed(ctx context.Context, q feed.Query) (*postPort.FeedPageDTO, error) {
	filter, err := feed.ParseFilter(q)
	if err != nil {
		return nil, err
	}
	size, skip, err := feed.Window(q.Page, q.PageSize, s.MaxPageSize)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.PostRepository.Query(ctx, filter, skip, size)
	if err != nil {
		s.Logger.Error("❌ Feed query failed", zap.Error(err))
		return nil, err
	}

	items, err := s.Projector.Posts(ctx, posts, uuid.FromStringOrNil(q.ViewerID))
	if err != nil {
		return nil, err
	}

	return &postPort.FeedPageDTO{
		Items:      items,
		Pagination: feed.NewPagination(q.Page, size, skip, len(items), total),
	}, nil
}
