package database

import (
	"strings"
	"time"

	"cityscope/internal/core/post"
	"cityscope/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// postRecord ردیف جدول posts؛ LocationKey نسخه‌ی lowercase شده‌ی Location برای فیلتر است
type postRecord struct {
	ID          uuid.UUID `gorm:"primaryKey;type:char(36)"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index:idx_posts_author_created,priority:1"`
	Content     string    `gorm:"type:text;not null"`
	Type        string    `gorm:"type:varchar(32);not null;index:idx_posts_type_created,priority:1"`
	Location    string    `gorm:"type:varchar(255)"`
	LocationKey string    `gorm:"type:varchar(255);index"`
	Images      []string  `gorm:"type:text;serializer:json"`
	CreatedAt   time.Time `gorm:"not null;index:idx_posts_author_created,priority:2;index:idx_posts_type_created,priority:2;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (postRecord) TableName() string { return "posts" }

// likeRecord one row per (post, user); the composite primary key keeps the set unique.
type likeRecord struct {
	PostID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `gorm:"primaryKey;type:char(36);index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (likeRecord) TableName() string { return "post_likes" }

// commentRecord Position is the append index of the comment within its post.
type commentRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_comments_post_position,priority:1"`
	Position  int       `gorm:"not null;uniqueIndex:idx_comments_post_position,priority:2"`
	UserID    uuid.UUID `gorm:"type:char(36);not null"`
	Content   string    `gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (commentRecord) TableName() string { return "post_comments" }

// AutoMigrate اعمال مایگریشن برای همه‌ی جدول‌ها
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&postRecord{},
		&likeRecord{},
		&commentRecord{},
	)
}

func toPostRecord(p *post.Post) *postRecord {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &postRecord{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Content:     p.Content,
		Type:        string(p.Type),
		Location:    p.Location,
		LocationKey: strings.ToLower(p.Location),
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *postRecord) toPost(likes []likeRecord, comments []commentRecord) *post.Post {
	p := &post.Post{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		Type:      post.Type(r.Type),
		Location:  r.Location,
		Images:    append([]string{}, r.Images...),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	ls := make([]post.Like, 0, len(likes))
	for _, l := range likes {
		ls = append(ls, post.Like{UserID: l.UserID, CreatedAt: l.CreatedAt})
	}
	cs := make([]post.Comment, 0, len(comments))
	for _, c := range comments {
		cs = append(cs, post.Comment{ID: c.ID, UserID: c.UserID, Content: c.Content, CreatedAt: c.CreatedAt})
	}
	return post.Restore(p, ls, cs)
}
