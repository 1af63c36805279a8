package reconciler

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"imageLocator/internal/geocoder"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
	"imageLocator/internal/storage"
	"log/slog"
	"path"
	"strconv"
	"strings"
)

const (
	StatusSucceeded = "Succeeded"
	StatusFailed    = "Failed"
)

type Detection struct {
	FileName  string  `json:"FileName" validate:"required"`
	Latitude  float64 `json:"Latitude" validate:"latitude"`
	Longitude float64 `json:"Longitude" validate:"longitude"`
}

type Result struct {
	Address    string      `json:"Address,omitempty"`
	Latitude   *float64    `json:"Latitude" validate:"omitempty,latitude"`
	Longitude  *float64    `json:"Longitude" validate:"omitempty,longitude"`
	Score      float64     `json:"Score,omitempty"`
	Detections []Detection `json:"Detections,omitempty" validate:"omitempty,dive"`
}

// Callback is the message the prediction service posts when a task finishes.
type Callback struct {
	TaskID       string  `json:"TaskId" validate:"required"`
	Status       string  `json:"Status" validate:"required,oneof=Succeeded Failed"`
	ErrorCode    *string `json:"ErrorCode,omitempty"`
	ErrorMessage *string `json:"ErrorMessage,omitempty"`
	Result       *Result `json:"Result,omitempty"`
}

var validate = validator.New()

func (c Callback) Validate() error {
	return validate.Struct(c)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TaskStore
type TaskStore interface {
	UpdateTask(ctx context.Context, id int64, fn func(task *models.GeoTask) error) (*models.GeoTask, error)
	InTx(ctx context.Context, fn func(tx storage.Tx) error) error
}

var errTerminal = errors.New("task already finished")

// Reconciler applies prediction callbacks to GeoTasks.
type Reconciler struct {
	log      *slog.Logger
	tasks    TaskStore
	geocoder geocoder.Geocoder
	store    objectstore.Store
}

func New(log *slog.Logger, tasks TaskStore, geo geocoder.Geocoder, store objectstore.Store) *Reconciler {
	return &Reconciler{
		log:      log,
		tasks:    tasks,
		geocoder: geo,
		store:    store,
	}
}

// Apply moves a processing task to done or failed. A task that already
// finished is returned unchanged. Coordinates already on the task are never
// overwritten. Unknown ids yield storage.ErrTaskNotFound.
func (r *Reconciler) Apply(ctx context.Context, cb Callback) (*models.GeoTask, error) {
	const op = "reconciler.Apply"

	log := r.log.With(
		slog.String("op", op),
		slog.String("task_id", cb.TaskID),
		slog.String("status", cb.Status),
	)

	id, err := strconv.ParseInt(strings.TrimSpace(cb.TaskID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: task %q: %w", op, cb.TaskID, storage.ErrTaskNotFound)
	}

	var unchanged models.GeoTask

	task, err := r.tasks.UpdateTask(ctx, id, func(task *models.GeoTask) error {
		if task.Status.Terminal() {
			unchanged = *task
			return errTerminal
		}

		switch cb.Status {
		case StatusSucceeded:
			succeed(task, cb.Result)
		case StatusFailed:
			task.Status = models.StatusFailed
			task.FailureReason = failureReason(cb)
		}

		return nil
	})
	if errors.Is(err, errTerminal) {
		log.Info("callback for finished task ignored", slog.String("current", string(unchanged.Status)))
		return &unchanged, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("task updated", slog.String("new_status", string(task.Status)))

	if task.Status != models.StatusDone {
		return task, nil
	}

	if task.Address == nil && task.Lat != nil && task.Lon != nil {
		task = r.fillAddress(ctx, log, task)
	}

	if cb.Result != nil && len(cb.Result.Detections) > 0 {
		r.saveDetections(ctx, log, task, cb.Result.Detections)
	}

	return task, nil
}

func succeed(task *models.GeoTask, res *Result) {
	task.Status = models.StatusDone

	if res == nil {
		return
	}

	if task.Lat == nil && res.Latitude != nil {
		lat := *res.Latitude
		task.Lat = &lat
	}

	if task.Lon == nil && res.Longitude != nil {
		lon := *res.Longitude
		task.Lon = &lon
	}

	if task.Address == nil && res.Address != "" {
		addr := res.Address
		task.Address = &addr
	}
}

func failureReason(cb Callback) *string {
	var parts []string

	if cb.ErrorCode != nil && *cb.ErrorCode != "" {
		parts = append(parts, *cb.ErrorCode)
	}

	if cb.ErrorMessage != nil && *cb.ErrorMessage != "" {
		parts = append(parts, *cb.ErrorMessage)
	}

	if len(parts) == 0 {
		return nil
	}

	reason := strings.Join(parts, ": ")

	return &reason
}

// fillAddress reverse geocodes the task coordinates. Failures are logged only.
func (r *Reconciler) fillAddress(ctx context.Context, log *slog.Logger, task *models.GeoTask) *models.GeoTask {
	addr, err := r.geocoder.Reverse(ctx, *task.Lat, *task.Lon)
	if err != nil {
		log.Warn("reverse geocoding failed", sl.Err(err))
		return task
	}

	updated, err := r.tasks.UpdateTask(ctx, task.ID, func(t *models.GeoTask) error {
		if t.Address == nil {
			t.Address = &addr
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save address", sl.Err(err))
		return task
	}

	return updated
}

func (r *Reconciler) saveDetections(ctx context.Context, log *slog.Logger, task *models.GeoTask, detections []Detection) {
	err := r.tasks.InTx(ctx, func(tx storage.Tx) error {
		for _, d := range detections {
			image := models.StoredImage{
				Key:          d.FileName,
				OriginalName: path.Base(d.FileName),
				URL:          r.store.URL(d.FileName),
				UserID:       task.UserID,
			}

			if err := tx.CreateImage(ctx, &image); err != nil {
				if errors.Is(err, storage.ErrImageExists) {
					log.Warn("detection image already stored", slog.String("key", d.FileName))
					continue
				}
				return err
			}

			entry := models.DetectedEntry{
				TaskID:  task.ID,
				ImageID: image.ID,
				Lat:     d.Latitude,
				Lon:     d.Longitude,
			}
			if err := tx.CreateDetectedEntry(ctx, &entry); err != nil {
				return err
			}

			task.Detected = append(task.Detected, entry)
		}

		return nil
	})
	if err != nil {
		task.Detected = nil
		log.Error("failed to save detections", sl.Err(err))
	}
}
