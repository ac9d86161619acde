package auth

import (
	"errors"
	"fmt"
	"time"

	"cityscope/internal/core/apperr"

	"github.com/dgrijalva/jwt-go"
)

const Issuer = "cityscope"

// JWTManager صدور و بررسی توکن‌های HS256
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *JWTManager) Issue(userID string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &jwt.StandardClaims{
		Subject:   userID,
		Issuer:    Issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	// امضاء توکن
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify every failure is reported as UNAUTHENTICATED.
func (m *JWTManager) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", apperr.Unauthenticated("token expired")
		}
		return "", apperr.Unauthenticated("invalid token")
	}
	if claims.Issuer != Issuer {
		return "", apperr.Unauthenticated("invalid token")
	}
	if claims.Subject == "" {
		return "", apperr.Unauthenticated("invalid token")
	}
	return claims.Subject, nil
}
