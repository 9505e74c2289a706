// Package query provides a read-side view over an attraction's stored
// images. It fetches the primary image and the full gallery together and
// degrades to empty results instead of propagating store failures to the
// rendering surface.
package query

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trippix/attractions/internal/logging"
	"github.com/trippix/attractions/internal/models"
)

// Source is the metadata read API the view depends on. Satisfied by
// services.ImageService.
type Source interface {
	List(ctx context.Context, attractionID string) ([]*models.ImageRecord, error)
	GetPrimary(ctx context.Context, attractionID string) (*models.ImageRecord, error)
}

// Result is one consistent read of an attraction's imagery. On failure
// Primary is nil, Images is empty and Err carries what went wrong; callers
// can always render Result without checking Err first.
type Result struct {
	AttractionID string
	Primary      *models.ImageRecord
	Images       []*models.ImageRecord
	Err          error
}

// ImageQuery caches the latest Result for one attraction at a time and
// refetches when the attraction changes or a mutation invalidates the view.
type ImageQuery struct {
	src Source
	log logging.Logger

	mu           sync.Mutex
	attractionID string
	result       Result
	loaded       bool
}

func NewImageQuery(src Source, log logging.Logger) *ImageQuery {
	return &ImageQuery{src: src, log: log}
}

// SetAttraction points the view at an attraction. Changing identity drops
// the cached result and fetches fresh; setting the same identity again is a
// no-op and keeps the cache.
func (q *ImageQuery) SetAttraction(ctx context.Context, attractionID string) Result {
	q.mu.Lock()
	if q.loaded && q.attractionID == attractionID {
		r := q.result
		q.mu.Unlock()
		return r
	}
	q.attractionID = attractionID
	q.loaded = false
	q.mu.Unlock()

	return q.Refetch(ctx)
}

// Result returns the cached view, fetching it first if nothing is cached
// yet. An empty attraction identity yields an empty Result without touching
// the store.
func (q *ImageQuery) Result(ctx context.Context) Result {
	q.mu.Lock()
	if q.loaded {
		r := q.result
		q.mu.Unlock()
		return r
	}
	q.mu.Unlock()

	return q.Refetch(ctx)
}

// Refetch reloads both reads from the store, concurrently. Any failure
// produces the degraded empty Result; the error is logged and surfaced on
// Result.Err but never panics or propagates.
func (q *ImageQuery) Refetch(ctx context.Context) Result {
	q.mu.Lock()
	id := q.attractionID
	q.mu.Unlock()

	if id == "" {
		return q.store(Result{})
	}

	var (
		primary *models.ImageRecord
		list    []*models.ImageRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, err = q.src.GetPrimary(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = q.src.List(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		q.log.Warn(ctx, "image query degraded to empty view", "attraction_id", id, "error", err.Error())
		return q.store(Result{AttractionID: id, Images: []*models.ImageRecord{}, Err: err})
	}

	if list == nil {
		list = []*models.ImageRecord{}
	}
	return q.store(Result{AttractionID: id, Primary: primary, Images: list})
}

func (q *ImageQuery) store(r Result) Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	if r.AttractionID != q.attractionID {
		// a SetAttraction raced this fetch; the stale result is discarded
		return r
	}
	q.result = r
	q.loaded = true
	return r
}
