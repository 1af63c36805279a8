package upload_test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore/mocks"
	"imageLocator/internal/upload"
	"testing"
)

func storeURL(key string) string {
	return "http://minio:9000/images/" + key
}

func TestBatchUploader_Upload(t *testing.T) {
	store := mocks.NewStore(t)

	files := []models.FileDescriptor{
		{Key: "k1_a.jpg", OriginalName: "a.jpg", Index: 0, Content: []byte("a"), ContentType: "image/jpeg"},
		{Key: "k2_b.jpg", OriginalName: "b.jpg", Index: 1, Content: []byte("b"), ContentType: "image/jpeg"},
		{Key: "k3_c.jpg", OriginalName: "c.jpg", Index: 2, Content: []byte("c"), ContentType: "image/jpeg"},
	}

	store.On("Put", mock.Anything, "k1_a.jpg", []byte("a"), "image/jpeg").Return(nil).Once()
	store.On("Put", mock.Anything, "k2_b.jpg", []byte("b"), "image/jpeg").Return(errors.New("bucket unavailable")).Once()
	store.On("Put", mock.Anything, "k3_c.jpg", []byte("c"), "image/jpeg").Return(nil).Once()
	store.On("URL", mock.Anything).Return(storeURL)

	res := upload.NewBatchUploader(store, 2).Upload(context.Background(), files)

	require.Equal(t, []models.UploadedFile{
		{Key: "k1_a.jpg", OriginalName: "a.jpg", Index: 0, URL: storeURL("k1_a.jpg")},
		{Key: "k3_c.jpg", OriginalName: "c.jpg", Index: 2, URL: storeURL("k3_c.jpg")},
	}, res.Successful)
	require.Equal(t, []models.FileError{
		{Index: 1, Filename: "b.jpg", Error: "Upload failed: bucket unavailable"},
	}, res.Failed)
}
