package deleteLocation

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/lib/api/response"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/storage"
	"log/slog"
	"net/http"
	"strconv"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TaskDeleter
type TaskDeleter interface {
	DeleteTask(ctx context.Context, userID, id int64) ([]string, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BlobDeleter
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Response struct {
	response.Response
	Message string `json:"message"`
}

// New deletes one of the caller's image locations with its images.
// @Summary      Deletes an image location
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Image location id"
// @Success      200  {object}  deleteLocation.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /image-locations/{id} [delete]
func New(log *slog.Logger, taskDeleter TaskDeleter, blobs BlobDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.locations.deleteLocation.New"

		log := log.With(slog.String("op", op))

		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id < 1 {
			log.Info("invalid image location id", slog.String("id", idStr))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid image location id"))
			return
		}

		log = log.With(slog.Int64("task_id", id), slog.Int64("user_id", user.ID))

		keys, err := taskDeleter.DeleteTask(r.Context(), user.ID, id)
		if err != nil {
			if errors.Is(err, storage.ErrTaskNotFound) {
				log.Warn("image location not found for deletion")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image location not found"))
				return
			}

			log.Error("failed to delete image location", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete image location"))
			return
		}

		// Rows are gone at this point, a blob left behind is only logged.
		for _, key := range keys {
			if err := blobs.Delete(context.WithoutCancel(r.Context()), key); err != nil {
				log.Warn("failed to delete image blob", slog.String("key", key), sl.Err(err))
			}
		}

		log.Info("image location deleted", slog.Int("images", len(keys)))

		render.JSON(w, r, Response{
			Response: response.OK(),
			Message:  fmt.Sprintf("Image location %d deleted", id),
		})
	}
}
