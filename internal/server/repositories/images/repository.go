// Package images persists image metadata for attractions.
package images

import (
	"context"

	"github.com/trippix/attractions/internal/models"
)

// Repository is the metadata store contract. Implementations report
// common.ErrStoreUnavailable for round-trip failures and common.ErrNotFound
// when a targeted row does not exist.
type Repository interface {
	// Save inserts one record and fills in the store-assigned ID and
	// CreatedAt. Other records' is_primary flags are never touched here,
	// even when rec.IsPrimary is set: promotion is a separate transition.
	Save(ctx context.Context, rec *models.ImageRecord) error

	// List returns all records for an attraction, newest first.
	List(ctx context.Context, attractionID string) ([]*models.ImageRecord, error)

	// GetPrimary returns the primary record, or (nil, nil) when the
	// attraction has no primary set. Only lookup failures are errors.
	GetPrimary(ctx context.Context, attractionID string) (*models.ImageRecord, error)

	// ClearPrimary unsets is_primary on the attraction's current primary,
	// if any. Clearing when no primary exists is not an error.
	ClearPrimary(ctx context.Context, attractionID string) error

	// MarkPrimary sets is_primary on the given record.
	MarkPrimary(ctx context.Context, imageID string) error

	// Delete removes the record.
	Delete(ctx context.Context, imageID string) error
}
