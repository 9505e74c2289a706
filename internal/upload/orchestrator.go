// Package upload drives selected files through the image pipeline:
// validate, transfer to blob storage, derive variant URLs, persist
// metadata. One orchestrator processes its batch strictly sequentially and
// publishes per-file progress through copy-on-write snapshots.
package upload

import (
	"context"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/trippix/attractions/internal/logging"
	"github.com/trippix/attractions/internal/models"
	"github.com/trippix/attractions/internal/storage"
	"github.com/trippix/attractions/internal/transform"

	"sync"
)

// File is one candidate upload as handed over by the selection surface
// (file picker or drag-drop).
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Recorder persists metadata for a completed transfer. Satisfied by
// services.ImageService.
type Recorder interface {
	Save(ctx context.Context, attractionID, storageKey, imageURL string, variants models.VariantURLs, isPrimary bool) (*models.ImageRecord, error)
}

// Callbacks receive terminal notifications per file. Either may be nil.
// A panicking callback does not disturb orchestrator state.
type Callbacks struct {
	OnSuccess func(*models.ImageRecord)
	OnError   func(error)
}

// Config tunes batch policy and progress retention.
type Config struct {
	MaxSizeMB int // per-file ceiling, default 50
	MaxFiles  int // per-batch cap, default 5

	// How long terminal tasks stay visible before being pruned.
	SuccessTTL time.Duration // default 3s
	ErrorTTL   time.Duration // default 5s
}

const (
	defaultMaxSizeMB  = 50
	defaultMaxFiles   = 5
	defaultSuccessTTL = 3 * time.Second
	defaultErrorTTL   = 5 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = defaultMaxFiles
	}
	if c.SuccessTTL <= 0 {
		c.SuccessTTL = defaultSuccessTTL
	}
	if c.ErrorTTL <= 0 {
		c.ErrorTTL = defaultErrorTTL
	}
	return c
}

// Stage progress values. Transfer progress is mapped linearly into the
// space between stageTransfer and stageVariants.
const (
	stageValidated  = 10
	stageKeyDerived = 20
	stageTransfer   = 30
	stageVariants   = 85
	stagePersisted  = 95
	stageDone       = 100
)

// Orchestrator runs upload batches. Safe for concurrent readers of Tasks();
// batches themselves are drained one file at a time.
type Orchestrator struct {
	cfg       Config
	blobs     storage.Uploader
	transform *transform.Transformer
	recorder  Recorder
	cb        Callbacks
	log       logging.Logger

	mu    sync.Mutex
	tasks map[string]models.UploadTask
}

func NewOrchestrator(cfg Config, blobs storage.Uploader, tf *transform.Transformer, recorder Recorder, cb Callbacks, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg.withDefaults(),
		blobs:     blobs,
		transform: tf,
		recorder:  recorder,
		cb:        cb,
		log:       log,
		tasks:     map[string]models.UploadTask{},
	}
}

// Tasks returns a snapshot of the live progress map. Every internal update
// replaces the map wholesale, so a snapshot never shows a half-updated
// entry.
func (o *Orchestrator) Tasks() map[string]models.UploadTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	return maps.Clone(o.tasks)
}

// Process drains files strictly in order: a file's pipeline does not start
// until the previous file reached a terminal state. Batches beyond the
// configured cap are truncated. A failed file never stops its siblings.
func (o *Orchestrator) Process(ctx context.Context, attractionID string, files []File) {
	if len(files) > o.cfg.MaxFiles {
		o.log.Warn(ctx, "batch truncated", "selected", len(files), "max", o.cfg.MaxFiles)
		files = files[:o.cfg.MaxFiles]
	}

	for i := range files {
		o.processOne(ctx, attractionID, files[i])
	}
}

// newTaskID derives a progress-map key from submission time and file name,
// suffixed when a same-named file landed in the same millisecond: IDs must
// be unique within the live set or entries would overwrite each other.
func (o *Orchestrator) newTaskID(name string) string {
	id := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, taken := o.tasks[id]; !taken {
		return id
	}
	for i := 2; ; i++ {
		alt := fmt.Sprintf("%s-%d", id, i)
		if _, taken := o.tasks[alt]; !taken {
			return alt
		}
	}
}

func (o *Orchestrator) processOne(ctx context.Context, attractionID string, f File) {
	id := o.newTaskID(f.Name)

	o.put(id, models.UploadTask{ID: id, FileName: f.Name, Progress: 0, Status: models.StatusPending})

	if err := ValidateImageFile(f.ContentType, f.Size, int64(o.cfg.MaxSizeMB)); err != nil {
		o.fail(ctx, id, err)
		return
	}
	o.advance(id, stageValidated)

	key := storage.ObjectKey(attractionID, f.Name)
	o.advance(id, stageKeyDerived)

	o.advance(id, stageTransfer)
	imageURL, err := o.blobs.Upload(ctx, key, f.ContentType, f.Size, f.Body, func(done, total int64) {
		o.advance(id, transferProgress(done, total))
	})
	if err != nil {
		o.fail(ctx, id, err)
		return
	}

	o.advance(id, stageVariants)
	variants := o.transform.Variants(imageURL)

	rec, err := o.recorder.Save(ctx, attractionID, key, imageURL, variants, false)
	if err != nil {
		o.fail(ctx, id, err)
		return
	}
	o.advance(id, stagePersisted)

	o.finish(id, stageDone, models.StatusSuccess, "")
	o.log.Info(ctx, "upload complete", "task", id, "image_id", rec.ID)
	o.notifySuccess(ctx, rec)
	o.pruneAfter(id, o.cfg.SuccessTTL)
}

// transferProgress maps transport byte counts into the 30-85 band.
func transferProgress(done, total int64) int {
	if total <= 0 {
		return stageTransfer
	}
	p := stageTransfer + int(int64(stageVariants-stageTransfer)*done/total)
	if p > stageVariants {
		p = stageVariants
	}
	return p
}

func (o *Orchestrator) fail(ctx context.Context, id string, err error) {
	o.mu.Lock()
	progress := o.tasks[id].Progress // retain the value at time of failure
	o.mu.Unlock()

	o.finish(id, progress, models.StatusError, err.Error())
	o.log.Error(ctx, "upload failed", "task", id, "error", err.Error())
	o.notifyError(ctx, err)
	o.pruneAfter(id, o.cfg.ErrorTTL)
}

// put publishes a new task entry.
func (o *Orchestrator) put(id string, t models.UploadTask) {
	o.mu.Lock()
	defer o.mu.Unlock()
	next := maps.Clone(o.tasks)
	next[id] = t
	o.tasks = next
}

// advance raises the task's progress, never lowering it, and moves it to
// the uploading state.
func (o *Orchestrator) advance(id string, progress int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.tasks[id]
	if !ok || t.Status.Terminal() {
		return
	}
	if progress > t.Progress {
		t.Progress = progress
	}
	t.Status = models.StatusUploading
	next := maps.Clone(o.tasks)
	next[id] = t
	o.tasks = next
}

func (o *Orchestrator) finish(id string, progress int, status models.TaskStatus, errMsg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.tasks[id]
	if !ok {
		return
	}
	t.Progress = progress
	t.Status = status
	t.ErrorMessage = errMsg
	next := maps.Clone(o.tasks)
	next[id] = t
	o.tasks = next
}

// pruneAfter drops a terminal task from the live view once its display
// delay elapses.
func (o *Orchestrator) pruneAfter(id string, ttl time.Duration) {
	time.AfterFunc(ttl, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		next := maps.Clone(o.tasks)
		delete(next, id)
		o.tasks = next
	})
}

func (o *Orchestrator) notifySuccess(ctx context.Context, rec *models.ImageRecord) {
	if o.cb.OnSuccess == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			o.log.Error(ctx, "success callback panicked", "panic", fmt.Sprint(p))
		}
	}()
	o.cb.OnSuccess(rec)
}

func (o *Orchestrator) notifyError(ctx context.Context, err error) {
	if o.cb.OnError == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			o.log.Error(ctx, "error callback panicked", "panic", fmt.Sprint(p))
		}
	}()
	o.cb.OnError(err)
}
