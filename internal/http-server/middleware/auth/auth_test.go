package auth_test

import (
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/lib/logger/handlers/slogdiscard"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims auth.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func validClaims() auth.Claims {
	return auth.Claims{
		UserID:   42,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuth(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noUser := validClaims()
	noUser.UserID = 0

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()), wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()), wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), expired), wantStatus: http.StatusUnauthorized},
		{name: "wrong algorithm", header: "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims()), wantStatus: http.StatusUnauthorized},
		{name: "no user id", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), noUser), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Use(auth.New(slogdiscard.NewDiscardLogger(), secret))
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				user, ok := auth.UserFromContext(r.Context())
				require.True(t, ok)
				require.Equal(t, int64(42), user.ID)
				require.Equal(t, "alice", user.Username)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				require.JSONEq(t, `{"status":"Error","error":"unauthorized"}`, rr.Body.String())
			}
		})
	}
}
