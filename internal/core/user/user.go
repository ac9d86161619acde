package user

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"cityscope/internal/core/apperr"

	"github.com/gofrs/uuid"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
	MaxBioLength      = 150
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// User رکورد کاربر؛ فقط هش رمز عبور ذخیره می‌شود
type User struct {
	ID           uuid.UUID `gorm:"primaryKey;type:char(36)"`
	Username     string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(100)"`
	Mobile       string    `gorm:"type:char(10);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	ProfilePic   string    `gorm:"type:varchar(512)"`
	Bio          string    `gorm:"type:varchar(600)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// NormalizeUsername trims surrounding whitespace, as handles are stored trimmed.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return apperr.Validation("username must be between 3 and 30 characters")
	}
	return nil
}

func ValidateMobile(mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return apperr.Validation("mobile number must be 10 digits")
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperr.Validation("password must be at least 6 characters")
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return apperr.Validation("bio must be 150 characters or less")
	}
	return nil
}

// SetBio بیو را بعد از اعتبارسنجی تغییر می‌دهد
func (u *User) SetBio(bio string) error {
	if err := ValidateBio(bio); err != nil {
		return err
	}
	u.Bio = bio
	return nil
}
