package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/klauspost/compress/zip"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
	"log/slog"
)

const (
	keyPrefix   = "archives/"
	contentType = "application/zip"
)

var ErrNotZip = errors.New("file is not a zip archive")

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Storage
type Storage interface {
	CreateArchive(ctx context.Context, archive *models.ArchiveUpload) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Queue
type Queue interface {
	EnqueueArchive(ctx context.Context, archiveID int64) error
}

// Service accepts zip archives and schedules their expansion.
type Service struct {
	log     *slog.Logger
	store   objectstore.Store
	storage Storage
	queue   Queue
}

func NewService(log *slog.Logger, store objectstore.Store, storage Storage, queue Queue) *Service {
	return &Service{
		log:     log,
		store:   store,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the archive and its record and enqueues expansion. The
// archive is left in place when enqueueing fails.
func (s *Service) Upload(ctx context.Context, owner models.User, name string, data []byte) (*models.ArchiveUpload, error) {
	const op = "archive.Service.Upload"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("user_id", owner.ID),
		slog.String("filename", name),
	)

	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotZip)
	}

	key := objectstore.NewStorageKey(keyPrefix, name)

	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	archive := &models.ArchiveUpload{
		Key:          key,
		OriginalName: name,
		URL:          s.store.URL(key),
		Owner:        owner,
	}

	if err := s.storage.CreateArchive(ctx, archive); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			log.Error("failed to delete orphaned archive blob", slog.String("key", key), sl.Err(delErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.queue.EnqueueArchive(ctx, archive.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("archive accepted", slog.Int64("archive_id", archive.ID))

	return archive, nil
}
