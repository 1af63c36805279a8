package models

import (
	"time"
)

// StoredImage is one blob that has been durably written to the object store.
type StoredImage struct {
	ID           int64     `json:"id"`
	Key          string    `json:"filename"`
	OriginalName string    `json:"original_filename"`
	URL          string    `json:"file_path"`
	UserID       int64     `json:"-"`
	CreatedAt    time.Time `json:"uploaded_at"`
}
