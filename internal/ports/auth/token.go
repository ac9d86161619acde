package auth

import "time"

// TokenIssuer صدور توکن برای کاربر احراز هویت شده
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

// TokenVerifier returns the user id carried by a valid token.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
