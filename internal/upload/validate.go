package upload

import (
	"fmt"

	"github.com/trippix/attractions/internal/common"
)

// allowedMIMETypes is the fixed allow-list for uploads. Everything else is
// rejected before any network activity.
var allowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/avif": {},
}

// ValidateImageFile checks a candidate file's MIME type and size against
// policy. Pure and synchronous; it must run before any stage that performs
// I/O. The wrapped messages are user-facing.
func ValidateImageFile(contentType string, size int64, maxSizeMB int64) error {
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return fmt.Errorf("%w: please upload JPEG, PNG, WebP, or AVIF images", common.ErrInvalidFileType)
	}

	if size > maxSizeMB*1024*1024 {
		return fmt.Errorf("%w: file size exceeds %dMB limit, please compress your image", common.ErrFileTooLarge, maxSizeMB)
	}

	return nil
}
