package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	dbadapter "cityscope/internal/adapters/database"
	"cityscope/internal/core/user"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB یک دیتابیس SQLite در حافظه با همه‌ی جدول‌ها
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.Must(uuid.NewV4()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection serializes writers, like the row lock does on MySQL
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbadapter.AutoMigrate(db))
	return db
}

var mobileSeq atomic.Int64

// SeedUser ساخت کاربر با رمز عبور "secret123"
func SeedUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &user.User{
		ID:           uuid.Must(uuid.NewV4()),
		Username:     username,
		Name:         username,
		Mobile:       fmt.Sprintf("09%08d", mobileSeq.Add(1)),
		PasswordHash: string(hash),
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}
