package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Config تنظیمات برنامه که یک بار در main ساخته و به سازنده‌ها پاس داده می‌شود
type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppPort string `mapstructure:"APP_PORT"`

	DBDSN          string `mapstructure:"DB_DSN"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	MediaBackend    string `mapstructure:"MEDIA_BACKEND"`
	MediaDir        string `mapstructure:"MEDIA_DIR"`
	MediaBaseURL    string `mapstructure:"MEDIA_BASE_URL"`
	S3BucketName    string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion       string `mapstructure:"AWS_REGION"`
	MaxUploadSizeMB int    `mapstructure:"MAX_UPLOAD_SIZE_MB"`

	FeedDefaultPageSize    int `mapstructure:"FEED_DEFAULT_PAGE_SIZE"`
	FeedMaxPageSize        int `mapstructure:"FEED_MAX_PAGE_SIZE"`
	SummaryCacheTTLSeconds int `mapstructure:"SUMMARY_CACHE_TTL_SECONDS"`

	RateLimitWrites        int `mapstructure:"RATE_LIMIT_WRITES"`
	RateLimitWindowSeconds int `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
}

// Load بارگذاری تنظیمات از .env و متغیرهای محیطی
func Load() (*Config, error) {
	// .env اختیاری است؛ در production از متغیرهای سیستم استفاده می‌شود
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.MediaBackend = strings.ToLower(strings.TrimSpace(cfg.MediaBackend))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL_HOURS", 24*7)
	v.SetDefault("MEDIA_BACKEND", "disk")
	v.SetDefault("MEDIA_DIR", "./uploads")
	v.SetDefault("MEDIA_BASE_URL", "http://localhost:3000/media")
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 10)
	v.SetDefault("FEED_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("FEED_MAX_PAGE_SIZE", 100)
	v.SetDefault("SUMMARY_CACHE_TTL_SECONDS", 300)
	v.SetDefault("RATE_LIMIT_WRITES", 60)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
}

// Validate checks required values and production-only rules.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT is required")
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	switch c.MediaBackend {
	case "disk":
		if c.MediaDir == "" {
			return errors.New("MEDIA_DIR is required for the disk media backend")
		}
	case "s3":
		if c.S3BucketName == "" {
			return errors.New("S3_BUCKET_NAME is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend)
	}
	if c.MaxUploadSizeMB <= 0 {
		return errors.New("MAX_UPLOAD_SIZE_MB must be positive")
	}
	if c.FeedDefaultPageSize <= 0 || c.FeedMaxPageSize <= 0 {
		return errors.New("feed page sizes must be positive")
	}
	if c.FeedDefaultPageSize > c.FeedMaxPageSize {
		return errors.New("FEED_DEFAULT_PAGE_SIZE cannot exceed FEED_MAX_PAGE_SIZE")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be changed and at least 32 characters in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) SummaryCacheTTL() time.Duration {
	return time.Duration(c.SummaryCacheTTLSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) MaxUploadSizeBytes() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}
