package models

import (
	"time"
)

// ArchiveUpload is a zip container waiting to be expanded into images.
type ArchiveUpload struct {
	ID           int64
	Key          string
	OriginalName string
	URL          string
	Owner        User
	CreatedAt    time.Time
}
