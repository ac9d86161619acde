package database

import (
	"context"
	"errors"
	"strings"

	"cityscope/internal/core/apperr"
	"cityscope/internal/core/feed"
	"cityscope/internal/core/post"
	"cityscope/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

// Create ذخیره‌ی پست جدید؛ وجود نویسنده داخل همان تراکنش بررسی می‌شود
func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&user.User{}).
			Where("id = ?", p.AuthorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound("user", p.AuthorID)
		}
		return tx.Create(toPostRecord(p)).Error
	})
	return apperr.AsStore(err)
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var rec postRecord
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post", id)
		}
		return nil, apperr.Store(err)
	}
	posts, err := hydrate(repo.db.WithContext(ctx), []postRecord{rec})
	if err != nil {
		return nil, apperr.Store(err)
	}
	return posts[0], nil
}

func (repo *PostRepositoryDatabase) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*post.Post, error) {
	var recs []postRecord
	if err := newestFirst(repo.db.WithContext(ctx).Where("author_id = ?", authorID)).
		Find(&recs).Error; err != nil {
		return nil, apperr.Store(err)
	}
	posts, err := hydrate(repo.db.WithContext(ctx), recs)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := newestFirst(repo.db.WithContext(ctx).Model(&postRecord{}).Where("author_id = ?", authorID)).
		Pluck("id", &ids).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return ids, nil
}

// Query شمارش و برش صفحه هر دو با یک فیلتر و داخل یک تراکنش خواندنی انجام می‌شوند
func (repo *PostRepositoryDatabase) Query(ctx context.Context, f feed.Filter, skip, limit int) ([]*post.Post, int64, error) {
	var (
		total int64
		posts []*post.Post
	)
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyFilter(tx.Model(&postRecord{}), f).Count(&total).Error; err != nil {
			return err
		}

		var recs []postRecord
		if err := newestFirst(applyFilter(tx.Model(&postRecord{}), f)).
			Offset(skip).
			Limit(limit).
			Find(&recs).Error; err != nil {
			return err
		}

		var err error
		posts, err = hydrate(tx, recs)
		return err
	})
	if err != nil {
		return nil, 0, apperr.AsStore(err)
	}
	return posts, total, nil
}

// Update the post row is locked for the whole read-modify-write, so concurrent
// mutations of the same post are applied one after another.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, id uuid.UUID, mutate func(p *post.Post) error) (*post.Post, error) {
	var updated *post.Post
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec postRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("post", id)
			}
			return err
		}

		loaded, err := hydrate(tx, []postRecord{rec})
		if err != nil {
			return err
		}
		p := loaded[0]

		beforeLikes := make(map[uuid.UUID]struct{}, p.LikesCount())
		for _, l := range p.Likes() {
			beforeLikes[l.UserID] = struct{}{}
		}
		beforeComments := p.CommentsCount()

		if err := mutate(p); err != nil {
			return err
		}

		if err := writeLikeDiff(tx, p, beforeLikes); err != nil {
			return err
		}
		if err := writeNewComments(tx, p, beforeComments); err != nil {
			return err
		}
		if err := tx.Model(&postRecord{}).
			Where("id = ?", p.ID).
			Update("updated_at", p.UpdatedAt).Error; err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, apperr.AsStore(err)
	}
	return updated, nil
}

func writeLikeDiff(tx *gorm.DB, p *post.Post, before map[uuid.UUID]struct{}) error {
	after := p.Likes()
	var added []likeRecord
	for _, l := range after {
		if _, ok := before[l.UserID]; ok {
			delete(before, l.UserID)
			continue
		}
		added = append(added, likeRecord{PostID: p.ID, UserID: l.UserID, CreatedAt: l.CreatedAt})
	}

	// هر چیزی که در before باقی مانده حذف شده است
	if len(before) > 0 {
		removed := make([]uuid.UUID, 0, len(before))
		for id := range before {
			removed = append(removed, id)
		}
		if err := tx.Where("post_id = ? AND user_id IN ?", p.ID, removed).
			Delete(&likeRecord{}).Error; err != nil {
			return err
		}
	}
	if len(added) > 0 {
		if err := tx.Create(&added).Error; err != nil {
			return err
		}
	}
	return nil
}

func writeNewComments(tx *gorm.DB, p *post.Post, before int) error {
	comments := p.Comments()
	if len(comments) < before {
		return errors.New("comments can only be appended")
	}
	if len(comments) == before {
		return nil
	}

	recs := make([]commentRecord, 0, len(comments)-before)
	for i := before; i < len(comments); i++ {
		c := comments[i]
		recs = append(recs, commentRecord{
			ID:        c.ID,
			PostID:    p.ID,
			Position:  i,
			UserID:    c.UserID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return tx.Create(&recs).Error
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func applyFilter(db *gorm.DB, f feed.Filter) *gorm.DB {
	if f.Type != "" {
		db = db.Where("type = ?", string(f.Type))
	}
	if f.Location != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Location)) + "%"
		db = db.Where("location_key LIKE ? ESCAPE '!'", pattern)
	}
	return db
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// hydrate بارگذاری لایک‌ها و کامنت‌های چند پست با دو کوئری
func hydrate(db *gorm.DB, recs []postRecord) ([]*post.Post, error) {
	posts := make([]*post.Post, 0, len(recs))
	if len(recs) == 0 {
		return posts, nil
	}

	ids := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}

	var likes []likeRecord
	if err := db.Where("post_id IN ?", ids).
		Order("created_at ASC").Order("user_id ASC").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	var comments []commentRecord
	if err := db.Where("post_id IN ?", ids).
		Order("position ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	likesByPost := make(map[uuid.UUID][]likeRecord, len(recs))
	for _, l := range likes {
		likesByPost[l.PostID] = append(likesByPost[l.PostID], l)
	}
	commentsByPost := make(map[uuid.UUID][]commentRecord, len(recs))
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}

	for i := range recs {
		posts = append(posts, recs[i].toPost(likesByPost[recs[i].ID], commentsByPost[recs[i].ID]))
	}
	return posts, nil
}
