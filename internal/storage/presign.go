package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/trippix/attractions/internal/common"
)

// Indirections for tests.
var (
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	httpDo = func(c *http.Client, req *http.Request) (*http.Response, error) {
		return c.Do(req)
	}
)

// PresignUploader obtains a time-limited, scope-restricted write URL from
// the store immediately before each transfer, then PUTs the bytes over
// plain HTTP. The credential expires within Config.PresignTTL (1h default).
type PresignUploader struct {
	cfg    Config
	s3     *S3Uploader // shares client construction and Delete
	client *http.Client
}

func NewPresignUploader(cfg Config) *PresignUploader {
	return &PresignUploader{
		cfg:    cfg,
		s3:     NewS3Uploader(cfg),
		client: &http.Client{},
	}
}

// issueWriteURL presigns a PUT for key with the configured TTL.
func (u *PresignUploader) issueWriteURL(ctx context.Context, key, contentType string) (string, error) {
	client, err := u.s3.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(u.cfg.presignTTL()))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Upload issues a presigned write URL and transfers body to it.
func (u *PresignUploader) Upload(ctx context.Context, key, contentType string, size int64, body io.Reader, progress ProgressFunc) (string, error) {
	writeURL, err := u.issueWriteURL(ctx, key, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	if progress != nil {
		progress(0, size)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, writeURL, newProgressReader(body, size, progress))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := httpDo(u.client, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: storage responded %s", common.ErrUploadFailed, resp.Status)
	}

	if progress != nil {
		progress(size, size)
	}

	return u.cfg.PublicURL(key), nil
}

// Delete removes the object via the SDK; presigned deletes are not used.
func (u *PresignUploader) Delete(ctx context.Context, key string) error {
	return u.s3.Delete(ctx, key)
}
