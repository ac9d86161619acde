package storage

import (
	"bytes"
	"context"
	"fmt"

	"cityscope/internal/ports/media"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI the part of the S3 manager used for uploads.
type PutObjectAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Uploader آپلود فایل در باکت S3 و برگرداندن آدرس آن
type S3Uploader struct {
	Bucket   string
	Uploader PutObjectAPI
}

// NewS3Uploader credentials and region come from the default AWS chain (env, shared config, role).
func NewS3Uploader(ctx context.Context, bucket, region string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Uploader{
		Bucket:   bucket,
		Uploader: manager.NewUploader(client),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key string, file media.File) (string, error) {
	out, err := u.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.DetectContentType()),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return out.Location, nil
}
