package gcs

import (
	"cloud.google.com/go/storage"
	"context"
	"errors"
	"fmt"
	"google.golang.org/api/option"
	"imageLocator/internal/config"
	"imageLocator/internal/objectstore"
	"io"
	"time"
)

// Store is an objectstore.Store backed by a Google Cloud Storage bucket.
type Store struct {
	client         *storage.Client
	bucket         string
	publicEndpoint string
}

func New(ctx context.Context, cfg *config.GCS) (*Store, error) {
	const op = "objectstore.gcs.New"

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{
		client:         client,
		bucket:         cfg.Bucket,
		publicEndpoint: cfg.PublicEndpoint,
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	const op = "objectstore.gcs.Put"

	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "objectstore.gcs.Get"

	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, key, mapErr(err))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "objectstore.gcs.Delete"

	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, mapErr(err))
	}

	return nil
}

func (s *Store) URL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

func (s *Store) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	const op = "objectstore.gcs.PresignGet"

	signed, err := s.client.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", op, key, err)
	}

	res, err := objectstore.RewriteHost(signed, s.publicEndpoint)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func mapErr(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return objectstore.ErrObjectNotFound
	}

	return err
}
