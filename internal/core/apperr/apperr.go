package apperr

import (
	"errors"
	"fmt"
)

// Kind دسته‌بندی خطا که لایه‌ی HTTP بر اساس آن status code را انتخاب می‌کند
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindConflict        Kind = "CONFLICT"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindUploadFailed    Kind = "UPLOAD_FAILED"
	KindStore           Kind = "STORE_ERROR"
)

// Error is the application error carried across core, ports and adapters.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(resource string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: "rate limit exceeded"}
}

// UploadFailed wraps a media uploader failure; the message is safe to show to callers.
func UploadFailed(err error) *Error {
	return &Error{Kind: KindUploadFailed, Message: "failed to upload image", Err: err}
}

// Store wraps a persistence failure. The cause is for logs only.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "internal server error", Err: err}
}

// KindOf returns the kind of err, or KindStore for errors that carry no kind.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// AsStore keeps application errors as they are and wraps everything else as a store error.
func AsStore(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Store(err)
}
