package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cityscope/internal/ports/media"
)

// DiskUploader فایل‌ها را روی دیسک محلی می‌نویسد؛ برای development و تست
type DiskUploader struct {
	Dir     string
	BaseURL string
}

func NewDiskUploader(dir, baseURL string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create media dir: %w", err)
	}
	return &DiskUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *DiskUploader) Upload(ctx context.Context, key string, file media.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid media key %q", key)
	}

	target := filepath.Join(u.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	// نوشتن در فایل موقت و rename تا فایل نیمه‌کاره دیده نشود
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(file.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return u.BaseURL + "/" + clean, nil
}
