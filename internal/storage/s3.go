package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/trippix/attractions/internal/common"
)

// Indirections for tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// S3Uploader writes objects with the storage SDK directly, authenticated
// with a public-safe key whose bucket policy only permits writes under the
// attractions/ prefix.
type S3Uploader struct {
	cfg Config
}

func NewS3Uploader(cfg Config) *S3Uploader {
	return &S3Uploader{cfg: cfg}
}

func (u *S3Uploader) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.cfg.BaseEndpoint)
	}), nil
}

// Upload puts the object and returns its public URL. Transfer progress is
// observed through a counting reader wrapped around body.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, size int64, body io.Reader, progress ProgressFunc) (string, error) {
	client, err := u.client(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	if progress != nil {
		progress(0, size)
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          newProgressReader(body, size, progress),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	if progress != nil {
		progress(size, size)
	}

	return u.cfg.PublicURL(key), nil
}

// Delete removes the object under key.
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	client, err := u.client(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}
	return nil
}
