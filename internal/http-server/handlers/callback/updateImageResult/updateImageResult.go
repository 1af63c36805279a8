package updateImageResult

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/render"
	"imageLocator/internal/lib/api/response"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/reconciler"
	"imageLocator/internal/storage"
	"log/slog"
	"net/http"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=CallbackApplier
type CallbackApplier interface {
	Apply(ctx context.Context, cb reconciler.Callback) (*models.GeoTask, error)
}

type Response struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	NewStatus models.TaskStatus `json:"new_status"`
}

// ErrorResponse is the error shape the prediction service expects back.
type ErrorResponse struct {
	Error string `json:"error"`
}

// New receives the result of a prediction task.
// @Summary      Prediction callback
// @Description  Called by the prediction service when a task has finished
// @Tags         callback
// @Accept       json
// @Produce      json
// @Security     CallbackToken
// @Param        request  body  reconciler.Callback  true  "Task result"
// @Success      200  {object}  updateImageResult.Response
// @Failure      400  {object}  updateImageResult.ErrorResponse
// @Failure      404  {object}  updateImageResult.ErrorResponse
// @Failure      500  {object}  updateImageResult.ErrorResponse
// @Router       /update-image-result [post]
func New(log *slog.Logger, applier CallbackApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.callback.updateImageResult.New"

		log := log.With(slog.String("op", op))

		var cb reconciler.Callback

		if err := render.DecodeJSON(r.Body, &cb); err != nil {
			log.Error("failed to decode callback body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid JSON"})
			return
		}

		if err := cb.Validate(); err != nil {
			log.Error("invalid callback", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: response.ValidationError(err).Error})
			return
		}

		log = log.With(slog.String("task_id", cb.TaskID))

		task, err := applier.Apply(r.Context(), cb)
		if err != nil {
			if errors.Is(err, storage.ErrTaskNotFound) {
				log.Warn("callback for unknown task")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, ErrorResponse{Error: fmt.Sprintf("ImageLocation with id=%s not found", cb.TaskID)})
				return
			}

			log.Error("failed to apply callback", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "failed to update record"})
			return
		}

		render.JSON(w, r, Response{
			Status:    "success",
			Message:   fmt.Sprintf("Updated record %d", task.ID),
			NewStatus: task.Status,
		})
	}
}
