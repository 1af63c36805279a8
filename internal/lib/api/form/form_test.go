package form_test

import (
	"bytes"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/lib/api/form"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func body(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", "a.jpg")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{'x'}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return buf, mw.FormDataContentType()
}

func TestParseMultipart(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		maxBody     int64
		hideLength  bool
		wantTooBig  bool
		wantFileLen int64
	}{
		{name: "within limit", size: 100, maxBody: 4096, wantFileLen: 100},
		{name: "no limit", size: 100, maxBody: 0, wantFileLen: 100},
		{name: "declared length over limit", size: 8192, maxBody: 1024, wantTooBig: true},
		{name: "streamed body over limit", size: 8192, maxBody: 1024, hideLength: true, wantTooBig: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, contentType := body(t, tt.size)

			req := httptest.NewRequest(http.MethodPost, "/upload", b)
			req.Header.Set("Content-Type", contentType)
			if tt.hideLength {
				req.ContentLength = -1
			}

			err := form.ParseMultipart(httptest.NewRecorder(), req, 1<<20, tt.maxBody)
			if tt.wantTooBig {
				require.ErrorIs(t, err, form.ErrTooLarge)
				return
			}

			require.NoError(t, err)
			_, header, err := req.FormFile("file")
			require.NoError(t, err)
			require.Equal(t, tt.wantFileLen, header.Size)
		})
	}
}
