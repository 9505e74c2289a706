// Package services implements the metadata-recording operations on top of
// the repositories and the blob store.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trippix/attractions/internal/dbx"
	"github.com/trippix/attractions/internal/logging"
	"github.com/trippix/attractions/internal/models"
	"github.com/trippix/attractions/internal/server/repositories/repomanager"
	"github.com/trippix/attractions/internal/storage"
)

// ImageService records and queries image metadata. Blob bytes are owned by
// the storage layer; this service only coordinates the companion delete.
type ImageService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	blobs storage.Uploader
	log   logging.Logger
}

func NewImageService(db *sql.DB, repos repomanager.RepositoryManager, blobs storage.Uploader, log logging.Logger) *ImageService {
	return &ImageService{db: db, repos: repos, blobs: blobs, log: log}
}

// Save inserts one image record. isPrimary is stored as given but never
// clears another record's flag; promotion goes through SetPrimary so a
// mid-failure can't leave the attraction primary-less.
func (s *ImageService) Save(ctx context.Context, attractionID, storageKey, imageURL string, variants models.VariantURLs, isPrimary bool) (*models.ImageRecord, error) {
	rec := &models.ImageRecord{
		AttractionID: attractionID,
		StorageKey:   storageKey,
		ImageURL:     imageURL,
		ThumbnailURL: variants.Thumbnail,
		MobileURL:    variants.MobileHero,
		DesktopURL:   variants.DesktopHero,
		IsPrimary:    isPrimary,
	}

	if err := s.repos.Images(s.db).Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving image metadata: %w", err)
	}

	s.log.Info(ctx, "image metadata saved", "attraction_id", attractionID, "image_id", rec.ID, "key", storageKey)
	return rec, nil
}

// List returns all images for an attraction, newest first.
func (s *ImageService) List(ctx context.Context, attractionID string) ([]*models.ImageRecord, error) {
	return s.repos.Images(s.db).List(ctx, attractionID)
}

// GetPrimary returns the attraction's primary image, or (nil, nil) when no
// primary has been chosen.
func (s *ImageService) GetPrimary(ctx context.Context, attractionID string) (*models.ImageRecord, error) {
	return s.repos.Images(s.db).GetPrimary(ctx, attractionID)
}

// SetPrimary promotes imageID to be the attraction's single primary image.
// Clear-then-set runs inside one transaction: if the clear fails the set is
// never attempted, preserving the at-most-one invariant under partial
// failure. Concurrent promotions for the same attraction resolve to
// last-writer-wins.
func (s *ImageService) SetPrimary(ctx context.Context, imageID, attractionID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Images(tx)

		if err := repo.ClearPrimary(ctx, attractionID); err != nil {
			return fmt.Errorf("clearing current primary: %w", err)
		}
		if err := repo.MarkPrimary(ctx, imageID); err != nil {
			return fmt.Errorf("marking new primary: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "primary image changed", "attraction_id", attractionID, "image_id", imageID)
	return nil
}

// Delete removes the metadata row, then requests deletion of the backing
// blob. A blob-delete failure leaves an orphaned object, which is a storage
// cost rather than a data-integrity problem: it is logged, not raised.
func (s *ImageService) Delete(ctx context.Context, imageID, storageKey string) error {
	if err := s.repos.Images(s.db).Delete(ctx, imageID); err != nil {
		return fmt.Errorf("deleting image metadata: %w", err)
	}

	if err := s.blobs.Delete(ctx, storageKey); err != nil {
		s.log.Warn(ctx, "orphaned blob: object delete failed after metadata delete",
			"key", storageKey, "error", err.Error())
	}

	return nil
}
