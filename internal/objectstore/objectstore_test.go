package objectstore_test

import (
	"github.com/stretchr/testify/require"
	"imageLocator/internal/objectstore"
	"strings"
	"testing"
)

func TestNewStorageKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		file   string
		suffix string
	}{
		{name: "plain", file: "photo.jpg", suffix: "_photo.jpg"},
		{name: "with prefix", prefix: "archives/", file: "batch.zip", suffix: "_batch.zip"},
		{name: "client path stripped", file: "C:\\Users\\me\\photo.png", suffix: "_photo.png"},
		{name: "unix path stripped", file: "../../etc/photo.gif", suffix: "_photo.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := objectstore.NewStorageKey(tt.prefix, tt.file)

			require.True(t, strings.HasPrefix(key, tt.prefix))
			require.True(t, strings.HasSuffix(key, tt.suffix))
			// prefix + 36 char uuid + suffix
			require.Len(t, key, len(tt.prefix)+36+len(tt.suffix))
		})
	}

	require.NotEqual(t, objectstore.NewStorageKey("", "a.jpg"), objectstore.NewStorageKey("", "a.jpg"))
}

func TestRewriteHost(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		public string
		want   string
	}{
		{
			name: "no public endpoint",
			raw:  "http://minio:9000/images/a.jpg?X-Amz-Signature=abc",
			want: "http://minio:9000/images/a.jpg?X-Amz-Signature=abc",
		},
		{
			name:   "host only",
			raw:    "http://minio:9000/images/a.jpg?X-Amz-Signature=abc",
			public: "localhost:9000",
			want:   "http://localhost:9000/images/a.jpg?X-Amz-Signature=abc",
		},
		{
			name:   "with scheme",
			raw:    "http://minio:9000/images/a.jpg",
			public: "https://cdn.example.com",
			want:   "https://cdn.example.com/images/a.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := objectstore.RewriteHost(tt.raw, tt.public)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
