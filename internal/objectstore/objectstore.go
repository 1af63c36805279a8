package objectstore

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"net/url"
	"path"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Store
// Store keeps image and archive bytes. Keys are flat names, optionally
// prefixed with a folder such as "archives/".
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewStorageKey returns prefix + "<uuid>_<base name>".
func NewStorageKey(prefix, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}

	return prefix + uuid.NewString() + "_" + base
}

// RewriteHost replaces scheme and host of raw with the ones of public.
// public may be given without a scheme, in which case http is assumed.
func RewriteHost(raw, public string) (string, error) {
	if public == "" {
		return raw, nil
	}

	if !strings.Contains(public, "://") {
		public = "http://" + public
	}

	pub, err := url.Parse(public)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Scheme = pub.Scheme
	u.Host = pub.Host

	return u.String(), nil
}
