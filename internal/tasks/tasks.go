package tasks

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	TypeGeocodeDispatch = "geocode.dispatch"
	TypeArchiveExpand   = "archive.expand"
)

// Envelope is the unit carried by the queue. Payload is decoded according to Type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// GeocodeEntry is one GeoTask to hand over to the prediction service.
type GeocodeEntry struct {
	TaskID   int64    `json:"task_id"`
	FileName string   `json:"file_name"`
	Angle    float64  `json:"angle"`
	Height   float64  `json:"height"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

type GeocodeDispatch struct {
	Entries []GeocodeEntry `json:"entries"`
}

type ArchiveExpand struct {
	ArchiveID int64 `json:"archive_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Sender
type Sender interface {
	SendMessage(ctx context.Context, message []byte) error
}

// Queue publishes typed tasks through any transport that can send raw messages.
type Queue struct {
	sender Sender
}

func NewQueue(sender Sender) *Queue {
	return &Queue{sender: sender}
}

func (q *Queue) EnqueueGeocode(ctx context.Context, entries []GeocodeEntry) error {
	const op = "tasks.EnqueueGeocode"

	if err := q.enqueue(ctx, TypeGeocodeDispatch, GeocodeDispatch{Entries: entries}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (q *Queue) EnqueueArchive(ctx context.Context, archiveID int64) error {
	const op = "tasks.EnqueueArchive"

	if err := q.enqueue(ctx, TypeArchiveExpand, ArchiveExpand{ArchiveID: archiveID}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (q *Queue) enqueue(ctx context.Context, taskType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg, err := json.Marshal(Envelope{Type: taskType, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	return q.sender.SendMessage(ctx, msg)
}
