package images

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/trippix/attractions/internal/common"
	"github.com/trippix/attractions/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var imageCols = []string{"id", "attraction_id", "storage_key", "image_url", "thumbnail_url", "mobile_hero_url", "desktop_hero_url", "is_primary", "created_at"}

func TestSave_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+attraction_images\b.*RETURNING\s+id,\s*created_at;?\s*$`
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q).
		WithArgs("taj-mahal", "attractions/taj-mahal/1-a.jpg", "https://img/1.jpg", "t", "m", "d", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("img-1", created))

	rec := &models.ImageRecord{
		AttractionID: "taj-mahal",
		StorageKey:   "attractions/taj-mahal/1-a.jpg",
		ImageURL:     "https://img/1.jpg",
		ThumbnailURL: "t",
		MobileURL:    "m",
		DesktopURL:   "d",
	}
	if err := repo.Save(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "img-1" || !rec.CreatedAt.Equal(created) {
		t.Fatalf("record not filled in: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSave_StoreError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+attraction_images`).
		WillReturnError(errors.New("connection refused"))

	err := repo.Save(context.Background(), &models.ImageRecord{AttractionID: "a"})
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`SELECT .+ FROM attraction_images\s+WHERE attraction_id=\$1\s+ORDER BY created_at DESC`)
	now := time.Now()
	rows := sqlmock.NewRows(imageCols).
		AddRow("img-2", "taj-mahal", "k2", "u2", "", "", "", false, now).
		AddRow("img-1", "taj-mahal", "k1", "u1", "", "", "", true, now.Add(-time.Hour))

	mock.ExpectQuery(q.String()).WithArgs("taj-mahal").WillReturnRows(rows)

	got, err := repo.List(context.Background(), "taj-mahal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].ID != "img-2" || got[1].ID != "img-1" {
		t.Fatalf("wrong order: %v %v", got[0].ID, got[1].ID)
	}
	if !got[1].IsPrimary {
		t.Fatalf("bad row[1]: %+v", got[1])
	}
}

func TestList_QueryErr(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM attraction_images`).
		WithArgs("x").
		WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background(), "x")
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestGetPrimary_NoneIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`SELECT .+ FROM attraction_images\s+WHERE attraction_id=\$1 AND is_primary`)
	mock.ExpectQuery(q.String()).WithArgs("taj-mahal").
		WillReturnRows(sqlmock.NewRows(imageCols))

	got, err := repo.GetPrimary(context.Background(), "taj-mahal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil record, got %+v", got)
	}
}

func TestGetPrimary_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`SELECT .+ FROM attraction_images\s+WHERE attraction_id=\$1 AND is_primary`)
	mock.ExpectQuery(q.String()).WithArgs("taj-mahal").
		WillReturnRows(sqlmock.NewRows(imageCols).
			AddRow("img-1", "taj-mahal", "k", "u", "t", "m", "d", true, time.Now()))

	got, err := repo.GetPrimary(context.Background(), "taj-mahal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "img-1" || !got.IsPrimary {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestClearPrimary_OK(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`UPDATE attraction_images SET is_primary=false WHERE attraction_id=\$1 AND is_primary`)
	mock.ExpectExec(q.String()).WithArgs("taj-mahal").
		WillReturnResult(sqlmock.NewResult(0, 0)) // no existing primary

	if err := repo.ClearPrimary(context.Background(), "taj-mahal"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkPrimary_OK(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`UPDATE attraction_images SET is_primary=true WHERE id=\$1`)
	mock.ExpectExec(q.String()).WithArgs("img-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkPrimary(context.Background(), "img-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkPrimary_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`UPDATE attraction_images SET is_primary=true WHERE id=\$1`)
	mock.ExpectExec(q.String()).WithArgs("no-such-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPrimary(context.Background(), "no-such-id")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDelete_OK(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`DELETE FROM attraction_images WHERE id=\$1`)
	mock.ExpectExec(q.String()).WithArgs("img-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "img-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`DELETE FROM attraction_images WHERE id=\$1`)
	mock.ExpectExec(q.String()).WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "gone")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
