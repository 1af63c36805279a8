package storage

import (
	"context"
	"errors"
	"imageLocator/internal/models"
	"time"
)

var (
	ErrTaskNotFound    = errors.New("geo task not found")
	ErrArchiveNotFound = errors.New("archive not found")
	ErrImageExists     = errors.New("image with this key already exists")
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Tx
// Tx is the set of writes that take part in a multi-row transaction.
type Tx interface {
	EnsureUser(ctx context.Context, user models.User) error
	CreateImage(ctx context.Context, image *models.StoredImage) error
	CreateGeoTask(ctx context.Context, task *models.GeoTask) error
	CreateDetectedEntry(ctx context.Context, entry *models.DetectedEntry) error
}

// TaskFilter selects one page of a user's GeoTasks.
type TaskFilter struct {
	UserID int64

	// CreatedFrom is inclusive, CreatedUntil is exclusive.
	CreatedFrom  *time.Time
	CreatedUntil *time.Time

	Center   *Point
	RadiusKm float64

	Limit  int
	Offset int
}

type Point struct {
	Lat float64
	Lon float64
}
