package upload

import (
	"context"
	"golang.org/x/sync/errgroup"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
)

type UploadResult struct {
	Successful []models.UploadedFile
	Failed     []models.FileError
}

// BatchUploader puts descriptors into the object store concurrently.
type BatchUploader struct {
	store       objectstore.Store
	concurrency int
}

func NewBatchUploader(store objectstore.Store, concurrency int) *BatchUploader {
	if concurrency < 1 {
		concurrency = 1
	}

	return &BatchUploader{
		store:       store,
		concurrency: concurrency,
	}
}

// Upload never stops on a single failure. Both result lists keep input order.
func (u *BatchUploader) Upload(ctx context.Context, files []models.FileDescriptor) UploadResult {
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(u.concurrency)

	for i := range files {
		i := i
		f := files[i]
		g.Go(func() error {
			errs[i] = u.store.Put(ctx, f.Key, f.Content, f.ContentType)
			return nil
		})
	}

	_ = g.Wait()

	var res UploadResult

	for i, f := range files {
		if errs[i] != nil {
			res.Failed = append(res.Failed, models.FileError{
				Index:    f.Index,
				Filename: f.OriginalName,
				Error:    "Upload failed: " + errs[i].Error(),
			})
			continue
		}

		res.Successful = append(res.Successful, models.UploadedFile{
			Key:          f.Key,
			OriginalName: f.OriginalName,
			Index:        f.Index,
			URL:          u.store.URL(f.Key),
		})
	}

	return res
}
