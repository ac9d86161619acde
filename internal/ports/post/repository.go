package post

import (
	"context"
	"time"

	"cityscope/internal/core/feed"
	"cityscope/internal/core/post"
	userPort "cityscope/internal/ports/user"

	"github.com/gofrs/uuid"
)

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها
type PostRepository interface {
	// Create persists a new post. It fails with NOT_FOUND when the author does not exist.
	Create(ctx context.Context, post *post.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	// FindByAuthor returns the author's posts, newest first.
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*post.Post, error)
	// IDsByAuthor returns only the post ids of an author, newest first.
	IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error)
	// Query returns one page of posts matching filter plus the total match count.
	Query(ctx context.Context, filter feed.Filter, skip, limit int) ([]*post.Post, int64, error)
	// Update loads the post under an exclusive lock, applies mutate and writes the
	// result in the same transaction. A mutate error aborts without writing.
	Update(ctx context.Context, id uuid.UUID, mutate func(p *post.Post) error) (*post.Post, error)
}

// DTOها برای UseCase
type PostDTO struct {
	ID            string              `json:"id"`
	Content       string              `json:"content"`
	Type          string              `json:"type"`
	Location      string              `json:"location"`
	Images        []string            `json:"images"`
	Author        userPort.SummaryDTO `json:"author"`
	Likes         []LikeDTO           `json:"likes"`
	LikesCount    int                 `json:"likesCount"`
	LikedByMe     bool                `json:"likedByMe"`
	Comments      []CommentDTO        `json:"comments"`
	CommentsCount int                 `json:"commentsCount"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type LikeDTO struct {
	User      userPort.SummaryDTO `json:"user"`
	CreatedAt time.Time           `json:"createdAt"`
}

type CommentDTO struct {
	ID        string              `json:"id"`
	User      userPort.SummaryDTO `json:"user"`
	Content   string              `json:"content"`
	CreatedAt time.Time           `json:"createdAt"`
}

type LikeResultDTO struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type FeedPageDTO struct {
	Items      []*PostDTO      `json:"items"`
	Pagination feed.Pagination `json:"pagination"`
}
