package s3

import (
	"bytes"
	"context"
	"fmt"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"imageLocator/internal/config"
	"imageLocator/internal/objectstore"
	"io"
	"net/url"
	"time"
)

// Store is an objectstore.Store backed by an S3 compatible service (MinIO, AWS).
type Store struct {
	client         *minio.Client
	bucket         string
	endpoint       string
	publicEndpoint string
	useSSL         bool
}

func New(ctx context.Context, cfg *config.S3) (*Store, error) {
	const op = "objectstore.s3.New"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: bucket exists: %w", op, err)
	}

	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("%s: make bucket: %w", op, err)
		}
	}

	return &Store{
		client:         client,
		bucket:         cfg.Bucket,
		endpoint:       cfg.Endpoint,
		publicEndpoint: cfg.PublicEndpoint,
		useSSL:         cfg.UseSSL,
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	const op = "objectstore.s3.Put"

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "objectstore.s3.Get"

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, key, mapErr(err))
	}
	defer obj.Close()

	// GetObject is lazy, the missing key only surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, key, mapErr(err))
	}

	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "objectstore.s3.Delete"

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, mapErr(err))
	}

	return nil
}

func (s *Store) URL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	u := url.URL{Scheme: scheme, Host: s.endpoint, Path: "/" + s.bucket + "/" + key}

	return u.String()
}

func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	const op = "objectstore.s3.PresignGet"

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", op, key, err)
	}

	res, err := objectstore.RewriteHost(u.String(), s.publicEndpoint)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func mapErr(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return objectstore.ErrObjectNotFound
	}

	return err
}
