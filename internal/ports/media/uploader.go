package media

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"cityscope/internal/core/apperr"
)

// File یک فایل باینری که قبل از ذخیره‌ی رکورد آپلود می‌شود
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Uploader stores a blob under key and returns its durable URL. The call blocks
// until the blob is stored or the upload fails.
type Uploader interface {
	Upload(ctx context.Context, key string, file File) (string, error)
}

// DetectContentType returns the declared content type, or sniffs it from the data.
func (f File) DetectContentType() string {
	if ct := strings.TrimSpace(f.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(f.Data)
}

// Ext پسوند فایل؛ در صورت نبودن .jpg
func (f File) Ext() string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if ext == "" {
		return ".jpg"
	}
	return ext
}

// ValidateImage rejects empty files, files above maxSize bytes and anything that is not an image.
func ValidateImage(f File, maxSize int64) error {
	if len(f.Data) == 0 {
		return apperr.Validation(fmt.Sprintf("image %q is empty", f.Filename))
	}
	if maxSize > 0 && int64(len(f.Data)) > maxSize {
		return apperr.Validation(fmt.Sprintf("image %q exceeds the maximum upload size", f.Filename))
	}
	if !strings.HasPrefix(f.DetectContentType(), "image/") {
		return apperr.Validation(fmt.Sprintf("file %q is not an image", f.Filename))
	}
	return nil
}
