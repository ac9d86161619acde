package config

import (
	"go.uber.org/zap"
)

// NewLogger ساخت logger؛ در production خروجی JSON و در توسعه خروجی خوانا
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" || env == "prod" {
		return zap.NewProduction()
	}
	if env == "test" {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
