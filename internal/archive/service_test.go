package archive_test

import (
	"bytes"
	"context"
	"errors"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/archive"
	"imageLocator/internal/archive/mocks"
	"imageLocator/internal/lib/logger/handlers/slogdiscard"
	"imageLocator/internal/models"
	storemocks "imageLocator/internal/objectstore/mocks"
	"strings"
	"testing"
)

var owner = models.User{ID: 3, Username: "bob"}

func smallZip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("a.jpg")
	require.NoError(t, err)
	_, err = w.Write([]byte("a"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func isArchiveKey(key string) bool {
	return strings.HasPrefix(key, "archives/") && strings.HasSuffix(key, "_batch.zip")
}

func TestService_Upload(t *testing.T) {
	tests := []struct {
		name       string
		data       func(t *testing.T) []byte
		putErr     error
		createErr  error
		enqueueErr error
		wantErr    string
		wantDelete bool
	}{
		{
			name: "Success",
			data: smallZip,
		},
		{
			name:    "Not a zip",
			data:    func(*testing.T) []byte { return []byte("hello") },
			wantErr: archive.ErrNotZip.Error(),
		},
		{
			name:    "Object store failure",
			data:    smallZip,
			putErr:  errors.New("bucket gone"),
			wantErr: "bucket gone",
		},
		{
			name:       "Record failure removes blob",
			data:       smallZip,
			createErr:  errors.New("db down"),
			wantErr:    "db down",
			wantDelete: true,
		},
		{
			name:       "Enqueue failure",
			data:       smallZip,
			enqueueErr: errors.New("broker down"),
			wantErr:    "broker down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storemocks.NewStore(t)
			storage := mocks.NewStorage(t)
			queue := mocks.NewQueue(t)

			data := tt.data(t)

			if tt.wantErr != archive.ErrNotZip.Error() {
				store.On("Put", mock.Anything, mock.MatchedBy(isArchiveKey), data, "application/zip").Return(tt.putErr).Once()
			}

			if tt.putErr == nil && tt.wantErr != archive.ErrNotZip.Error() {
				store.On("URL", mock.MatchedBy(isArchiveKey)).Return("http://minio/images/archives/x_batch.zip").Once()
				storage.On("CreateArchive", mock.Anything, mock.AnythingOfType("*models.ArchiveUpload")).
					Run(func(args mock.Arguments) { args.Get(1).(*models.ArchiveUpload).ID = 11 }).
					Return(tt.createErr).Once()
			}

			if tt.wantDelete {
				store.On("Delete", mock.Anything, mock.MatchedBy(isArchiveKey)).Return(nil).Once()
			}

			if tt.putErr == nil && tt.createErr == nil && tt.wantErr != archive.ErrNotZip.Error() {
				queue.On("EnqueueArchive", mock.Anything, int64(11)).Return(tt.enqueueErr).Once()
			}

			svc := archive.NewService(slogdiscard.NewDiscardLogger(), store, storage, queue)

			res, err := svc.Upload(context.Background(), owner, "batch.zip", data)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				require.Nil(t, res)
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(11), res.ID)
			require.Equal(t, owner, res.Owner)
			require.Equal(t, "batch.zip", res.OriginalName)
			require.True(t, isArchiveKey(res.Key))
		})
	}
}
