package uploadArchive

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"imageLocator/internal/archive"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/lib/api/form"
	"imageLocator/internal/lib/api/response"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"io"
	"log/slog"
	"net/http"
)

const formField = "archive"

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ArchiveUploader
type ArchiveUploader interface {
	Upload(ctx context.Context, owner models.User, name string, data []byte) (*models.ArchiveUpload, error)
}

type Response struct {
	Message   string `json:"message"`
	ArchiveID int64  `json:"archive_id"`
}

// New accepts a zip archive of images. Its content is expanded in the background.
// @Summary      Uploads an archive
// @Description  Stores a zip archive and schedules its expansion into images
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archive  formData  file  true  "Zip archive"
// @Success      202  {object}  uploadArchive.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /upload-archive [post]
func New(log *slog.Logger, uploader ArchiveUploader, maxMemory, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.archives.uploadArchive.New"

		log := log.With(slog.String("op", op))

		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		if err := form.ParseMultipart(w, r, maxMemory, maxBody); err != nil {
			if errors.Is(err, form.ErrTooLarge) {
				log.Info("request body too large", slog.Int64("limit", maxBody))
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error("request too large"))
				return
			}

			log.Error("failed to parse multipart form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid multipart form"))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile(formField)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("archive file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("failed to read archive", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read archive"))
			return
		}

		if len(data) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("archive file is required"))
			return
		}

		rec, err := uploader.Upload(r.Context(), user, header.Filename, data)
		if errors.Is(err, archive.ErrNotZip) {
			log.Info("rejected non-zip archive", slog.String("filename", header.Filename))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("archive must be a zip file"))
			return
		}
		if err != nil {
			log.Error("failed to upload archive", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to upload archive"))
			return
		}

		log.Info("archive accepted", slog.Int64("archive_id", rec.ID))

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, Response{
			Message:   "Archive uploaded",
			ArchiveID: rec.ID,
		})
	}
}
