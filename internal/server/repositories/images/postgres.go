package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/trippix/attractions/internal/common"
	"github.com/trippix/attractions/internal/dbx"
	"github.com/trippix/attractions/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or
// *sql.Tx), so callers can bind it to a transaction for the promote
// transition.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const imageColumns = `id, attraction_id, storage_key, image_url, thumbnail_url, mobile_hero_url, desktop_hero_url, is_primary, created_at`

func scanImage(row interface{ Scan(dest ...any) error }) (*models.ImageRecord, error) {
	rec := &models.ImageRecord{}
	err := row.Scan(&rec.ID, &rec.AttractionID, &rec.StorageKey, &rec.ImageURL,
		&rec.ThumbnailURL, &rec.MobileURL, &rec.DesktopURL, &rec.IsPrimary, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Save inserts one record and reads back the generated id and created_at.
func (r *PostgresRepository) Save(ctx context.Context, rec *models.ImageRecord) error {
	query := `
		INSERT INTO attraction_images (attraction_id, storage_key, image_url, thumbnail_url, mobile_hero_url, desktop_hero_url, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.AttractionID, rec.StorageKey, rec.ImageURL,
		rec.ThumbnailURL, rec.MobileURL, rec.DesktopURL, rec.IsPrimary).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// List returns all records for attractionID ordered by created_at DESC.
func (r *PostgresRepository) List(ctx context.Context, attractionID string) ([]*models.ImageRecord, error) {
	query := `SELECT ` + imageColumns + ` FROM attraction_images
		WHERE attraction_id=$1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, attractionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var result []*models.ImageRecord
	for rows.Next() {
		rec, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPrimary returns the attraction's primary record, or (nil, nil) when
// none is set.
func (r *PostgresRepository) GetPrimary(ctx context.Context, attractionID string) (*models.ImageRecord, error) {
	query := `SELECT ` + imageColumns + ` FROM attraction_images
		WHERE attraction_id=$1 AND is_primary`

	rec, err := scanImage(r.db.QueryRowContext(ctx, query, attractionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// ClearPrimary unsets is_primary for the attraction. Zero affected rows
// means there was no primary, which is fine.
func (r *PostgresRepository) ClearPrimary(ctx context.Context, attractionID string) error {
	query := `UPDATE attraction_images SET is_primary=false WHERE attraction_id=$1 AND is_primary`

	if _, err := r.db.ExecContext(ctx, query, attractionID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// MarkPrimary sets is_primary on imageID. Exactly one row must be affected.
func (r *PostgresRepository) MarkPrimary(ctx context.Context, imageID string) error {
	query := `UPDATE attraction_images SET is_primary=true WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, imageID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: unexpected rows affected: %d", common.ErrConstraint, n)
	}
}

// Delete removes the record for imageID.
func (r *PostgresRepository) Delete(ctx context.Context, imageID string) error {
	query := `DELETE FROM attraction_images WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, imageID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
