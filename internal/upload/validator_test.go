package upload_test

import (
	"bytes"
	"errors"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"image"
	"image/png"
	"imageLocator/internal/models"
	"imageLocator/internal/upload"
	"io"
	"strings"
	"testing"
)

func opener(content string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	return buf.Bytes()
}

func TestValidator_Validate(t *testing.T) {
	lat := 10.0

	candidates := []upload.Candidate{
		{Name: "a.jpg", ContentType: "image/jpeg", Open: opener("aaa"), Meta: models.GeoMeta{Lat: &lat, Height: 1.5}},
		{Name: "", Open: nil},
		{Name: "empty.png", Open: opener("")},
		{Name: "broken.gif", Open: func() (io.ReadCloser, error) { return nil, errors.New("read failed") }},
		{Name: "b.png", Open: opener("bbb")},
	}

	validated, errs := upload.NewValidator(false, 0).Validate(candidates)

	require.Len(t, validated, 2)
	require.Equal(t, 0, validated[0].Index)
	require.Equal(t, "a.jpg", validated[0].OriginalName)
	require.Equal(t, "image/jpeg", validated[0].ContentType)
	require.Equal(t, models.SourceDirect, validated[0].Source)
	require.Equal(t, []byte("aaa"), validated[0].Content)
	require.True(t, strings.HasSuffix(validated[0].Key, "_a.jpg"))
	require.Equal(t, 10.0, *validated[0].Meta.Lat)

	require.Equal(t, 4, validated[1].Index)
	require.Equal(t, "image/png", validated[1].ContentType)
	require.NotEqual(t, validated[0].Key, validated[1].Key)

	require.Equal(t, []models.FileError{
		{Index: 1, Filename: "file_1", Error: "Empty or missing file"},
		{Index: 2, Filename: "empty.png", Error: "Empty or missing file"},
		{Index: 3, Filename: "broken.gif", Error: "read failed"},
	}, errs)
}

func TestValidator_VerifyImages(t *testing.T) {
	content := pngBytes(t)

	candidates := []upload.Candidate{
		{Name: "ok.png", Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil }},
		{Name: "fake.jpg", Open: opener("definitely not an image")},
	}

	validated, errs := upload.NewValidator(true, 0).Validate(candidates)

	require.Len(t, validated, 1)
	require.Equal(t, "ok.png", validated[0].OriginalName)
	require.Len(t, errs, 1)
	require.Equal(t, 1, errs[0].Index)
	require.True(t, strings.HasPrefix(errs[0].Error, "not a valid image"))
}

func TestValidator_SizeLimit(t *testing.T) {
	const limit = 1024

	// Zeros compress well: the archive is small, the entry is not.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("big.jpg")
	require.NoError(t, err)
	_, err = w.Write(make([]byte, 64*limit))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	entry := zr.File[0]

	candidates := []upload.Candidate{
		{Name: "big.jpg", Size: int64(entry.UncompressedSize64), Open: entry.Open},
		{Name: "undeclared.jpg", Open: entry.Open},
		{Name: "exact.jpg", Open: opener(strings.Repeat("x", limit))},
		{Name: "small.jpg", Size: 3, Open: opener("abc")},
	}

	validated, errs := upload.NewValidator(false, limit).Validate(candidates)

	require.Len(t, validated, 2)
	require.Equal(t, "exact.jpg", validated[0].OriginalName)
	require.Len(t, validated[0].Content, limit)
	require.Equal(t, "small.jpg", validated[1].OriginalName)

	require.Equal(t, []models.FileError{
		{Index: 0, Filename: "big.jpg", Error: "File too large, limit is 1024 bytes"},
		{Index: 1, Filename: "undeclared.jpg", Error: "File too large, limit is 1024 bytes"},
	}, errs)
}
