package userapp

import (
	"context"
	"errors"
	"strings"

	"cityscope/internal/core/apperr"
	userEntity "cityscope/internal/core/user"
	"cityscope/internal/ports/auth"
	"cityscope/internal/ports/media"
	postPort "cityscope/internal/ports/post"
	userPort "cityscope/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput ورودی ثبت‌نام
type RegisterInput struct {
	Username string
	Name     string
	Mobile   string
	Password string
}

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	PostRepository postPort.PostRepository
	Cache          userPort.SummaryCache
	Tokens         auth.TokenIssuer
	Uploader       media.Uploader
	Logger         *zap.Logger
	MaxUploadSize  int64
	BcryptCost     int

	NewID func() uuid.UUID
}

func NewUserService(
	userRepo userPort.UserRepository,
	postRepo postPort.PostRepository,
	cache userPort.SummaryCache,
	tokens auth.TokenIssuer,
	uploader media.Uploader,
	maxUploadSize int64,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		UserRepository: userRepo,
		PostRepository: postRepo,
		Cache:          cache,
		Tokens:         tokens,
		Uploader:       uploader,
		Logger:         logger,
		MaxUploadSize:  maxUploadSize,
		BcryptCost:     bcrypt.DefaultCost,
		NewID:          func() uuid.UUID { return uuid.Must(uuid.NewV4()) },
	}
}

// RegisterUser ثبت‌نام کاربر جدید و صدور توکن
func (s *UserService) RegisterUser(ctx context.Context, in RegisterInput) (*userPort.AuthResponse, error) {
	username := userEntity.NormalizeUsername(in.Username)
	mobile := strings.TrimSpace(in.Mobile)

	if err := userEntity.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := userEntity.ValidateMobile(mobile); err != nil {
		return nil, err
	}
	if err := userEntity.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	// بررسی اینکه آیا کاربر با این یوزرنیم یا موبایل قبلاً ثبت شده است
	existing, err := s.UserRepository.FindByUsernameOrMobile(ctx, username, mobile)
	if err == nil && existing != nil {
		return nil, apperr.Conflict("username or mobile already exists")
	}
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return nil, apperr.Store(err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:           s.NewID(),
		Username:     username,
		Name:         strings.TrimSpace(in.Name),
		Mobile:       mobile,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("✅ Registered user", zap.String("userID", u.ID.String()), zap.String("username", u.Username))
	return s.authResponse(u, nil)
}

// LoginUser identifier may be either the username or the mobile number.
func (s *UserService) LoginUser(ctx context.Context, identifier, password string) (*userPort.AuthResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperr.Validation("username or mobile and password are required")
	}

	u, err := s.UserRepository.FindByUsernameOrMobile(ctx, identifier, identifier)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("invalid credentials")
		}
		return nil, err
	}

	// مقایسه پسورد هش‌شده
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperr.Unauthenticated("invalid credentials")
		}
		return nil, apperr.Store(err)
	}

	postIDs, err := s.postIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return s.authResponse(u, postIDs)
}

func (s *UserService) authResponse(u *userEntity.User, postIDs []string) (*userPort.AuthResponse, error) {
	token, expiresAt, err := s.Tokens.Issue(u.ID.String())
	if err != nil {
		s.Logger.Error("❌ Error generating JWT", zap.Error(err))
		return nil, apperr.Store(err)
	}
	return &userPort.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      userPort.NewProfileDTO(u, postIDs),
	}, nil
}

// GetProfile پروفایل کاربر همراه با شناسه‌ی پست‌هایش
func (s *UserService) GetProfile(ctx context.Context, userID string) (*userPort.ProfileDTO, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	postIDs, err := s.postIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return userPort.NewProfileDTO(u, postIDs), nil
}

// UpdateProfile a nil bio or image leaves that field unchanged. The image is
// uploaded before anything is saved.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, bio *string, image *media.File) (*userPort.ProfileDTO, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		if err := u.SetBio(*bio); err != nil {
			return nil, err
		}
	}

	if image != nil {
		if err := media.ValidateImage(*image, s.MaxUploadSize); err != nil {
			return nil, err
		}
		url, err := s.Uploader.Upload(ctx, "users/"+u.ID.String()+image.Ext(), *image)
		if err != nil {
			s.Logger.Error("❌ Profile picture upload failed", zap.String("userID", u.ID.String()), zap.Error(err))
			return nil, apperr.UploadFailed(err)
		}
		u.ProfilePic = url
	}

	if err := s.UserRepository.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, u.ID)
	}

	postIDs, err := s.postIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return userPort.NewProfileDTO(u, postIDs), nil
}

// FindByHandle lookup-by-handle؛ فقط اطلاعات عمومی برگردانده می‌شود
func (s *UserService) FindByHandle(ctx context.Context, username string) (*userPort.SummaryDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, userEntity.NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	summary := userPort.NewSummaryDTO(u)
	return &summary, nil
}

// Summaries read-through over the summary cache. Ids without a user are left out.
func (s *UserService) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]userPort.SummaryDTO, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return map[uuid.UUID]userPort.SummaryDTO{}, nil
	}

	found := make(map[uuid.UUID]userPort.SummaryDTO, len(unique))
	missing := unique
	if s.Cache != nil {
		found, missing = s.Cache.GetSummaries(ctx, unique)
	}
	if len(missing) == 0 {
		return found, nil
	}

	users, err := s.UserRepository.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	fresh := make([]userPort.SummaryDTO, 0, len(users))
	for _, u := range users {
		summary := userPort.NewSummaryDTO(u)
		found[u.ID] = summary
		fresh = append(fresh, summary)
	}
	if s.Cache != nil {
		s.Cache.SetSummaries(ctx, fresh)
	}
	return found, nil
}

func (s *UserService) findUser(ctx context.Context, userID string) (*userEntity.User, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return nil, apperr.NotFound("user", userID)
	}
	return s.UserRepository.FindByID(ctx, uid)
}

func (s *UserService) postIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ids, err := s.PostRepository.IDsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
