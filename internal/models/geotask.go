package models

import (
	"time"
)

type TaskStatus string

const (
	StatusProcessing TaskStatus = "processing"
	StatusDone       TaskStatus = "done"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// GeoTask tracks the geolocation request for one StoredImage.
type GeoTask struct {
	ID            int64
	Status        TaskStatus
	UserID        int64
	ImageID       int64
	Address       *string
	Lat           *float64
	Lon           *float64
	Angle         float64
	Height        float64
	FailureReason *string
	CreatedAt     time.Time

	// Filled by list queries only.
	User     *User
	Image    *StoredImage
	Detected []DetectedEntry
}

// DetectedEntry is a secondary object found in the context of a GeoTask image.
type DetectedEntry struct {
	ID        int64
	TaskID    int64
	ImageID   int64
	Lat       float64
	Lon       float64
	CreatedAt time.Time

	Image *StoredImage
}
