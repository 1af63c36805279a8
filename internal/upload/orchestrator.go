package upload

import (
	"context"
	"errors"
	"fmt"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
	"imageLocator/internal/storage"
	"imageLocator/internal/tasks"
	"log/slog"
	"sort"
	"strings"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Storage
type Storage interface {
	InTx(ctx context.Context, fn func(tx storage.Tx) error) error
	MarkTasksFailed(ctx context.Context, ids []int64, reason string) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TaskQueue
type TaskQueue interface {
	EnqueueGeocode(ctx context.Context, entries []tasks.GeocodeEntry) error
}

// BatchError is returned by Process when no image of the batch was kept.
type BatchError struct {
	Items []models.FileError
	// Err is set when the batch failed for a reason not tied to a single file.
	Err error
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		msgs = append(msgs, fmt.Sprintf("#%d %s: %s", item.Index, item.Filename, item.Error))
	}

	if e.Err != nil {
		return fmt.Sprintf("batch failed: %v (%s)", e.Err, strings.Join(msgs, "; "))
	}

	return "batch failed: " + strings.Join(msgs, "; ")
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

var errRecordsFailed = errors.New("some image records could not be created")

// Orchestrator stores a batch of files all-or-nothing and schedules geocoding
// for every image of a stored batch.
type Orchestrator struct {
	log      *slog.Logger
	uploader *BatchUploader
	store    objectstore.Store
	storage  Storage
	queue    TaskQueue
}

func NewOrchestrator(log *slog.Logger, store objectstore.Store, storage Storage, queue TaskQueue, concurrency int) *Orchestrator {
	return &Orchestrator{
		log:      log,
		uploader: NewBatchUploader(store, concurrency),
		store:    store,
		storage:  storage,
		queue:    queue,
	}
}

// Process returns either every image of the batch or a *BatchError, never both.
func (o *Orchestrator) Process(ctx context.Context, owner models.User, files []models.FileDescriptor) ([]models.StoredImage, error) {
	const op = "upload.Orchestrator.Process"

	log := o.log.With(
		slog.String("op", op),
		slog.Int64("user_id", owner.ID),
		slog.Int("files", len(files)),
	)

	if len(files) == 0 {
		return []models.StoredImage{}, nil
	}

	// Compensations must run even when the caller has gone away.
	undoCtx := context.WithoutCancel(ctx)
	sg := newSaga(log)

	res := o.uploader.Upload(ctx, files)

	for _, f := range res.Successful {
		key := f.Key
		sg.add(key, func(ctx context.Context) error {
			return o.store.Delete(ctx, key)
		})
	}

	if len(res.Failed) > 0 {
		log.Warn("upload to object store failed", slog.Int("failed", len(res.Failed)))

		if len(res.Successful) == 0 {
			sortErrors(res.Failed)
			return nil, &BatchError{Items: res.Failed}
		}
	}

	meta := make(map[int]models.GeoMeta, len(files))
	for _, f := range files {
		meta[f.Index] = f.Meta
	}

	var (
		images    []models.StoredImage
		geoTasks  []models.GeoTask
		itemsErrs []models.FileError
	)

	err := o.storage.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.EnsureUser(ctx, owner); err != nil {
			return err
		}

		for _, f := range res.Successful {
			image := models.StoredImage{
				Key:          f.Key,
				OriginalName: f.OriginalName,
				URL:          f.URL,
				UserID:       owner.ID,
			}

			if err := tx.CreateImage(ctx, &image); err != nil {
				log.Error("failed to create image record", slog.String("key", f.Key), sl.Err(err))
				sg.runOne(undoCtx, f.Key)
				itemsErrs = append(itemsErrs, models.FileError{
					Index:    f.Index,
					Filename: f.OriginalName,
					Error:    "Database error: " + err.Error(),
				})
				continue
			}

			images = append(images, image)
			geoTasks = append(geoTasks, taskFor(image, meta[f.Index]))
		}

		// Records are still attempted for every stored file so that the
		// rejection lists upload and record failures together.
		if len(itemsErrs) > 0 || len(res.Failed) > 0 {
			return errRecordsFailed
		}

		for i := range geoTasks {
			if err := tx.CreateGeoTask(ctx, &geoTasks[i]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		sg.compensate(undoCtx)

		if errors.Is(err, errRecordsFailed) {
			items := append(append([]models.FileError{}, res.Failed...), itemsErrs...)
			sortErrors(items)
			return nil, &BatchError{Items: items}
		}

		log.Error("batch transaction failed", sl.Err(err))

		return nil, &BatchError{Items: allFailed(files, err), Err: fmt.Errorf("%s: %w", op, err)}
	}

	log.Info("batch stored", slog.Int("images", len(images)))

	o.dispatch(ctx, log, images, geoTasks)

	return images, nil
}

// dispatch enqueues geocoding for a committed batch. The batch is kept when
// the queue is unavailable, its tasks are marked failed instead.
func (o *Orchestrator) dispatch(ctx context.Context, log *slog.Logger, images []models.StoredImage, geoTasks []models.GeoTask) {
	entries := make([]tasks.GeocodeEntry, 0, len(geoTasks))
	ids := make([]int64, 0, len(geoTasks))

	for i, t := range geoTasks {
		entries = append(entries, tasks.GeocodeEntry{
			TaskID:   t.ID,
			FileName: images[i].Key,
			Angle:    t.Angle,
			Height:   t.Height,
			Lat:      t.Lat,
			Lon:      t.Lon,
		})
		ids = append(ids, t.ID)
	}

	err := o.queue.EnqueueGeocode(ctx, entries)
	if err == nil {
		return
	}

	log.Error("failed to enqueue geocode dispatch", sl.Err(err))

	reason := "dispatch enqueue failed: " + err.Error()
	if err = o.storage.MarkTasksFailed(context.WithoutCancel(ctx), ids, reason); err != nil {
		log.Error("failed to mark tasks failed", sl.Err(err))
	}
}

func taskFor(image models.StoredImage, meta models.GeoMeta) models.GeoTask {
	return models.GeoTask{
		Status:  models.StatusProcessing,
		UserID:  image.UserID,
		ImageID: image.ID,
		Address: meta.Address,
		Lat:     meta.Lat,
		Lon:     meta.Lon,
		Angle:   meta.Angle,
		Height:  meta.Height,
	}
}

func allFailed(files []models.FileDescriptor, err error) []models.FileError {
	items := make([]models.FileError, 0, len(files))
	for _, f := range files {
		items = append(items, models.FileError{Index: f.Index, Filename: f.OriginalName, Error: err.Error()})
	}

	return items
}

func sortErrors(items []models.FileError) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Index < items[j].Index
	})
}
