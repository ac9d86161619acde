package post

import (
	"strings"
	"time"
	"unicode/utf8"

	"cityscope/internal/core/apperr"

	"github.com/gofrs/uuid"
)

const (
	MaxContentLength = 280
	MaxCommentLength = 200
	MaxImages        = 5
)

// Type نوع پست؛ فقط مقادیر ثابت زیر معتبر هستند
type Type string

const (
	TypeRecommendation    Type = "recommendation"
	TypeAskForHelp        Type = "ask_for_help"
	TypeLocalUpdate       Type = "local_update"
	TypeEventAnnouncement Type = "event_announcement"
)

// Types lists every valid post type.
func Types() []Type {
	return []Type{TypeRecommendation, TypeAskForHelp, TypeLocalUpdate, TypeEventAnnouncement}
}

// ParseType returns the Type named by s or a validation error.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", apperr.Validation("invalid post type")
}

type Like struct {
	UserID    uuid.UUID
	CreatedAt time.Time
}

type Comment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time
}

// Post is the aggregate root for a feed entry. Likes and comments are owned by the
// post and change only through ToggleLike and AddComment.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	Type      Type
	Location  string
	Images    []string
	CreatedAt time.Time
	UpdatedAt time.Time

	likes    []Like
	comments []Comment
}

// ValidateContent بررسی طول محتوای پست
func ValidateContent(content string) error {
	if content == "" {
		return apperr.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return apperr.Validation("content must be 280 characters or less")
	}
	return nil
}

func ValidateCommentContent(content string) error {
	if content == "" {
		return apperr.Validation("comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return apperr.Validation("comment must be 200 characters or less")
	}
	return nil
}

func ValidateImageCount(n int) error {
	if n > MaxImages {
		return apperr.Validation("a post can have at most 5 images")
	}
	return nil
}

// New ساخت یک پست جدید بعد از اعتبارسنجی همه‌ی فیلدها
func New(id, authorID uuid.UUID, content string, typ Type, location string, images []string, now time.Time) (*Post, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	if _, err := ParseType(string(typ)); err != nil {
		return nil, err
	}
	if err := ValidateImageCount(len(images)); err != nil {
		return nil, err
	}
	if authorID == uuid.Nil {
		return nil, apperr.Validation("author is required")
	}

	imgs := make([]string, len(images))
	copy(imgs, images)

	return &Post{
		ID:        id,
		AuthorID:  authorID,
		Content:   content,
		Type:      typ,
		Location:  strings.TrimSpace(location),
		Images:    imgs,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Restore rebuilds a post loaded from storage together with its sub-collections.
// likes must hold at most one entry per user and comments must be in append order.
func Restore(p *Post, likes []Like, comments []Comment) *Post {
	p.likes = append([]Like(nil), likes...)
	p.comments = append([]Comment(nil), comments...)
	return p
}

// ToggleLike لایک کاربر را اضافه یا حذف می‌کند و وضعیت جدید را برمی‌گرداند
func (p *Post) ToggleLike(userID uuid.UUID, now time.Time) bool {
	for i, l := range p.likes {
		if l.UserID == userID {
			p.likes = append(p.likes[:i:i], p.likes[i+1:]...)
			p.UpdatedAt = now
			return false
		}
	}
	p.likes = append(p.likes, Like{UserID: userID, CreatedAt: now})
	p.UpdatedAt = now
	return true
}

// AddComment appends a comment to the end of the sequence.
func (p *Post) AddComment(id, userID uuid.UUID, content string, now time.Time) (Comment, error) {
	if err := ValidateCommentContent(content); err != nil {
		return Comment{}, err
	}
	c := Comment{ID: id, UserID: userID, Content: content, CreatedAt: now}
	p.comments = append(p.comments, c)
	p.UpdatedAt = now
	return c, nil
}

func (p *Post) HasLiked(userID uuid.UUID) bool {
	for _, l := range p.likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

func (p *Post) LikesCount() int { return len(p.likes) }

func (p *Post) CommentsCount() int { return len(p.comments) }

// Likes returns a copy of the like set.
func (p *Post) Likes() []Like {
	return append([]Like(nil), p.likes...)
}

// Comments returns a copy of the comment sequence in append order.
func (p *Post) Comments() []Comment {
	return append([]Comment(nil), p.comments...)
}

// ParticipantIDs همه‌ی کاربرانی که باید در خروجی پست نمایش داده شوند (نویسنده، لایک‌کننده‌ها، کامنت‌گذارها)
func (p *Post) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 1+len(p.likes)+len(p.comments))
	ids = append(ids, p.AuthorID)
	for _, l := range p.likes {
		ids = append(ids, l.UserID)
	}
	for _, c := range p.comments {
		ids = append(ids, c.UserID)
	}
	return ids
}
