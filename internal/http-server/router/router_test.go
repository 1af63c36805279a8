package router_test

import (
	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/http-server/router"
	"imageLocator/internal/lib/logger/handlers/slogdiscard"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const (
	jwtSecret     = "jwt-secret"
	callbackToken = "cb-token"
)

// echo answers with what the router put on the request context.
func echo(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())
		format, _ := r.Context().Value(middleware.URLFormatCtxKey).(string)

		render.JSON(w, r, map[string]any{
			"handler":  name,
			"user_id":  user.ID,
			"username": user.Username,
			"format":   format,
			"id":       chi.URLParam(r, "id"),
		})
	}
}

func token(t *testing.T) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID:   42,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func newServer(t *testing.T) *httpexpect.Expect {
	t.Helper()

	r := router.New(slogdiscard.NewDiscardLogger(),
		router.Security{JWTSecret: jwtSecret, CallbackToken: callbackToken},
		router.Handlers{
			UploadImages:      echo("uploadImages"),
			UploadArchive:     echo("uploadArchive"),
			ListLocations:     echo("listLocations"),
			DeleteLocation:    echo("deleteLocation"),
			UpdateImageResult: echo("updateImageResult"),
		},
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return httpexpect.Default(t, srv.URL)
}

func TestRouter_Health(t *testing.T) {
	e := newServer(t)

	e.GET("/healthz").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("status").String().IsEqual("OK")
}

func TestRouter_AuthenticatedRoutes(t *testing.T) {
	e := newServer(t)
	bearer := token(t)

	e.POST("/upload-images").
		Expect().
		Status(http.StatusUnauthorized).
		JSON().Object().
		Value("error").String().IsEqual("unauthorized")

	obj := e.POST("/upload-images").
		WithHeader("Authorization", bearer).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	obj.Value("handler").String().IsEqual("uploadImages")
	obj.Value("user_id").Number().IsEqual(42)
	obj.Value("username").String().IsEqual("alice")

	e.POST("/upload-archive").
		WithHeader("Authorization", bearer).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("handler").String().IsEqual("uploadArchive")

	e.DELETE("/image-locations/7").
		WithHeader("Authorization", bearer).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("id").String().IsEqual("7")
}

func TestRouter_ListFormats(t *testing.T) {
	e := newServer(t)
	bearer := token(t)

	e.GET("/user/image-locations").
		WithHeader("Authorization", bearer).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("format").String().IsEmpty()

	obj := e.GET("/user/image-locations.geojson").
		WithHeader("Authorization", bearer).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	obj.Value("handler").String().IsEqual("listLocations")
	obj.Value("format").String().IsEqual("geojson")
}

func TestRouter_Callback(t *testing.T) {
	e := newServer(t)

	e.POST("/update-image-result").
		Expect().
		Status(http.StatusUnauthorized)

	e.POST("/update-image-result").
		WithHeader("Authorization", "Bearer wrong").
		Expect().
		Status(http.StatusUnauthorized)

	e.POST("/update-image-result").
		WithHeader("Authorization", "Bearer "+callbackToken).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("handler").String().IsEqual("updateImageResult")
}
