package upload

import (
	"bytes"
	"context"
	"errors"
	"github.com/klauspost/compress/zip"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
	"log/slog"
	"math"
	"mime"
	"path"
	"strings"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ArchiveStorage
type ArchiveStorage interface {
	GetArchive(ctx context.Context, id int64) (*models.ArchiveUpload, error)
	DeleteArchive(ctx context.Context, id int64) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BatchProcessor
type BatchProcessor interface {
	Process(ctx context.Context, owner models.User, files []models.FileDescriptor) ([]models.StoredImage, error)
}

// ArchiveExpander turns a stored zip archive into an upload batch of its images.
type ArchiveExpander struct {
	log       *slog.Logger
	storage   ArchiveStorage
	store     objectstore.Store
	validator *Validator
	processor BatchProcessor
	defaults  models.GeoDefaults
	// maxTotalBytes caps the summed uncompressed size of the image entries.
	maxTotalBytes int64
}

func NewArchiveExpander(
	log *slog.Logger,
	storage ArchiveStorage,
	store objectstore.Store,
	validator *Validator,
	processor BatchProcessor,
	defaults models.GeoDefaults,
	maxTotalBytes int64,
) *ArchiveExpander {
	return &ArchiveExpander{
		log:           log,
		storage:       storage,
		store:         store,
		validator:     validator,
		processor:     processor,
		defaults:      defaults,
		maxTotalBytes: maxTotalBytes,
	}
}

// Expand processes the archive's images as one batch. The archive blob and
// record are removed only when the whole batch was stored, otherwise both are
// kept and the failure is logged.
func (e *ArchiveExpander) Expand(ctx context.Context, archiveID int64) {
	const op = "upload.ArchiveExpander.Expand"

	log := e.log.With(
		slog.String("op", op),
		slog.Int64("archive_id", archiveID),
	)

	archive, err := e.storage.GetArchive(ctx, archiveID)
	if err != nil {
		log.Error("failed to load archive", sl.Err(err))
		return
	}

	data, err := e.store.Get(ctx, archive.Key)
	if err != nil {
		log.Error("failed to fetch archive blob", slog.String("key", archive.Key), sl.Err(err))
		return
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Error("failed to open archive", sl.Err(err))
		return
	}

	var (
		candidates []Candidate
		skipped    int
		total      uint64
	)

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		ext := strings.ToLower(path.Ext(f.Name))
		if _, ok := imageExtensions[ext]; !ok {
			skipped++
			continue
		}

		// The zip reader fails an entry that inflates past its declared
		// size, so declared sizes bound what is actually read.
		if f.UncompressedSize64 > math.MaxUint64-total {
			total = math.MaxUint64
		} else {
			total += f.UncompressedSize64
		}

		candidates = append(candidates, Candidate{
			Source:      models.SourceArchive,
			Name:        path.Base(f.Name),
			ContentType: mime.TypeByExtension(ext),
			Size:        declaredSize(f.UncompressedSize64),
			Open:        f.Open,
			Meta:        e.defaults.Meta(),
		})
	}

	log.Info("archive opened", slog.Int("images", len(candidates)), slog.Int("skipped", skipped))

	if e.maxTotalBytes > 0 && total > uint64(e.maxTotalBytes) {
		log.Error("archive too large",
			slog.Uint64("uncompressed_bytes", total),
			slog.Int64("limit", e.maxTotalBytes),
		)
		return
	}

	files, errs := e.validator.Validate(candidates)
	if len(errs) > 0 {
		log.Error("archive contains invalid images", slog.Any("errors", errs))
		return
	}

	images, err := e.processor.Process(ctx, archive.Owner, files)
	if err != nil {
		var batchErr *BatchError
		if errors.As(err, &batchErr) {
			log.Error("archive batch failed", slog.Any("errors", batchErr.Items), sl.Err(err))
		} else {
			log.Error("archive batch failed", sl.Err(err))
		}
		return
	}

	if err = e.store.Delete(ctx, archive.Key); err != nil {
		log.Warn("failed to delete archive blob", slog.String("key", archive.Key), sl.Err(err))
	}

	if err = e.storage.DeleteArchive(ctx, archive.ID); err != nil {
		log.Error("failed to delete archive record", sl.Err(err))
		return
	}

	log.Info("archive expanded", slog.Int("images", len(images)))
}

func declaredSize(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(n)
}
