package user

import (
	"context"
	"time"

	"cityscope/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	Update(ctx context.Context, user *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error)
	FindByUsernameOrMobile(ctx context.Context, username, mobile string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SummaryCache کش خلاصه‌ی هویت کاربران؛ خطاهای کش به صورت miss رفتار می‌کنند
type SummaryCache interface {
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]SummaryDTO, []uuid.UUID)
	SetSummaries(ctx context.Context, summaries []SummaryDTO)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// DTOها برای UseCase
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"`
	User      *ProfileDTO `json:"user"`
}

// SummaryDTO the public identity fields shown next to posts, likes and comments.
type SummaryDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

type ProfileDTO struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile"`
	ProfilePic string    `json:"profilePic"`
	Bio        string    `json:"bio"`
	Posts      []string  `json:"posts"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewSummaryDTO(u *user.User) SummaryDTO {
	return SummaryDTO{
		ID:         u.ID.String(),
		Username:   u.Username,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
	}
}

func NewProfileDTO(u *user.User, postIDs []string) *ProfileDTO {
	if postIDs == nil {
		postIDs = []string{}
	}
	return &ProfileDTO{
		ID:         u.ID.String(),
		Username:   u.Username,
		Name:       u.Name,
		Mobile:     u.Mobile,
		ProfilePic: u.ProfilePic,
		Bio:        u.Bio,
		Posts:      postIDs,
		CreatedAt:  u.CreatedAt,
	}
}
