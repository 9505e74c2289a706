// Package storage moves image bytes to and from an S3-compatible object
// store (Cloudflare R2, MinIO, AWS). Two transports satisfy the same
// Uploader contract: a direct SDK PutObject authenticated with a
// prefix-scoped key, and a presigned-PUT transfer where a time-limited
// write URL is issued immediately before the upload.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProgressFunc receives incremental transfer progress. total is the full
// body size in bytes; transferred is monotonically non-decreasing. When a
// transport cannot observe byte counts it still reports the start (0) and
// end (total) transitions.
type ProgressFunc func(transferred, total int64)

// Uploader transfers one object to blob storage under the given key and
// returns its public URL. Failures are not retried at this layer.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, size int64, body io.Reader, progress ProgressFunc) (string, error)

	// Delete removes the backing object. Used best-effort on image
	// deletion; an orphaned blob is a storage-cost concern, not a
	// data-integrity violation.
	Delete(ctx context.Context, key string) error
}

// Config holds object-store settings for both transports.
type Config struct {
	AccessKey     string
	SecretKey     string
	Region        string
	Bucket        string
	BaseEndpoint  string        // S3 API endpoint (R2 account endpoint or MinIO address)
	PublicBaseURL string        // public read base, {PublicBaseURL}/{key}
	PresignTTL    time.Duration // write-credential lifetime, default 1h
}

const defaultPresignTTL = time.Hour

func (c Config) presignTTL() time.Duration {
	if c.PresignTTL <= 0 {
		return defaultPresignTTL
	}
	return c.PresignTTL
}

// PublicURL returns the public read URL for a stored key.
func (c Config) PublicURL(key string) string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/" + key
}

// ObjectKey derives a collision-resistant storage path for an upload:
// an attraction namespace segment plus a timestamped leaf that preserves
// the original file extension. The uuid avoids collisions between uploads
// landing in the same millisecond.
func ObjectKey(attractionID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("attractions/%s/%d-%s%s", attractionID, time.Now().UnixMilli(), uuid.New(), ext)
}
