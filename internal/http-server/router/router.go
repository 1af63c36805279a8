package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/swaggo/http-swagger"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/http-server/middleware/callbacktoken"
	"imageLocator/internal/http-server/middleware/mwlogger"
	"imageLocator/internal/lib/api/response"
	"log/slog"
	"net/http"
)

// Handlers are the endpoints mounted by New.
type Handlers struct {
	UploadImages      http.HandlerFunc
	UploadArchive     http.HandlerFunc
	ListLocations     http.HandlerFunc
	DeleteLocation    http.HandlerFunc
	UpdateImageResult http.HandlerFunc
}

type Security struct {
	JWTSecret     string
	CallbackToken string
}

// New mounts the API. Location and upload routes require a user token, the
// prediction callback requires the shared callback token.
func New(log *slog.Logger, sec Security, h Handlers) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OK())
	})

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Group(func(r chi.Router) {
		r.Use(auth.New(log, sec.JWTSecret))

		r.Post("/upload-images", h.UploadImages)
		r.Post("/upload-archive", h.UploadArchive)
		// Also serves /user/image-locations.geojson through URLFormat.
		r.Get("/user/image-locations", h.ListLocations)
		r.Delete("/image-locations/{id}", h.DeleteLocation)
	})

	router.Group(func(r chi.Router) {
		r.Use(callbacktoken.New(sec.CallbackToken))

		r.Post("/update-image-result", h.UpdateImageResult)
	})

	return router
}
