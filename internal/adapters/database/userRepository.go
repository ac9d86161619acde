package database

import (
	"context"
	"errors"

	"cityscope/internal/core/apperr"
	"cityscope/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or mobile already exists")
		}
		return nil, apperr.Store(err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) Update(ctx context.Context, u *user.User) error {
	if err := repo.db.WithContext(ctx).Save(u).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return repo.first(ctx, "user", id, "id = ?", id)
}

func (repo *UserRepositoryDatabase) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	var users []*user.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) FindByUsernameOrMobile(ctx context.Context, username, mobile string) (*user.User, error) {
	return repo.first(ctx, "user", username, "username = ? OR mobile = ?", username, mobile)
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return repo.first(ctx, "user", username, "username = ?", username)
}

func (repo *UserRepositoryDatabase) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Store(err)
	}
	return count > 0, nil
}

func (repo *UserRepositoryDatabase) first(ctx context.Context, resource string, key any, query string, args ...any) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(resource, key)
		}
		return nil, apperr.Store(err)
	}
	return &u, nil
}
