package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"cityscope/internal/core/apperr"
	"cityscope/internal/ports/media"

	"github.com/gin-gonic/gin"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readFiles فایل‌ها قبل از خواندن از نظر تعداد و حجم بررسی می‌شوند
func readFiles(headers []*multipart.FileHeader, maxCount int, maxSize int64) ([]media.File, error) {
	if maxCount >= 0 && len(headers) > maxCount {
		return nil, apperr.Validation(fmt.Sprintf("at most %d images are allowed", maxCount))
	}

	files := make([]media.File, 0, len(headers))
	for _, h := range headers {
		if maxSize > 0 && h.Size > maxSize {
			return nil, apperr.Validation(fmt.Sprintf("image %q exceeds the maximum upload size", h.Filename))
		}
		f, err := h.Open()
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("unable to read %q", h.Filename))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("unable to read %q", h.Filename))
		}
		files = append(files, media.File{
			Filename:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
