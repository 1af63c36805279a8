package callbacktoken_test

import (
	"github.com/stretchr/testify/require"
	"imageLocator/internal/http-server/middleware/callbacktoken"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCallbackToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		token      string
		header     string
		wantStatus int
	}{
		{name: "open when unset", wantStatus: http.StatusOK},
		{name: "matching token", token: "s3cret", header: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "wrong token", token: "s3cret", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", token: "s3cret", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/update-image-result", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			callbacktoken.New(tt.token)(ok).ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
