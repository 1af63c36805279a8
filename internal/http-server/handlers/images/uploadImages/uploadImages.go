package uploadImages

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"imageLocator/internal/geocoder"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/lib/api/form"
	"imageLocator/internal/lib/api/response"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/upload"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BatchProcessor
type BatchProcessor interface {
	Process(ctx context.Context, owner models.User, files []models.FileDescriptor) ([]models.StoredImage, error)
}

type ValidationErrorResponse struct {
	ValidationErrors []models.FileError `json:"validation_errors"`
}

type FailureResponse struct {
	Error   string             `json:"error"`
	Details []models.FileError `json:"details"`
}

var validate = validator.New()

// New uploads a batch of images with optional geolocation hints.
// @Summary      Uploads images
// @Description  Stores every image of the batch or none, and schedules geolocation for each
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        images_data[0][image]    formData  file    true   "Image file"
// @Param        images_data[0][address]  formData  string  false  "Address"
// @Param        images_data[0][lat]      formData  number  false  "Latitude"
// @Param        images_data[0][lon]      formData  number  false  "Longitude"
// @Param        images_data[0][angle]    formData  number  false  "Camera angle"
// @Param        images_data[0][height]   formData  number  false  "Camera height"
// @Success      200  {object}  object
// @Failure      400  {object}  uploadImages.ValidationErrorResponse
// @Failure      401  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      500  {object}  uploadImages.FailureResponse
// @Router       /upload-images [post]
func New(
	log *slog.Logger,
	fileValidator *upload.Validator,
	processor BatchProcessor,
	geo geocoder.Geocoder,
	defaults models.GeoDefaults,
	maxMemory int64,
	maxBody int64,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.images.uploadImages.New"

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

		candidates, metaErrs := parseForm(r.MultipartForm, defaults)
		if len(candidates) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("no images provided"))
			return
		}

		files, errs := fileValidator.Validate(candidates)
		errs = mergeErrors(errs, metaErrs)
		if len(errs) > 0 {
			log.Info("upload rejected", slog.Int("errors", len(errs)))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ValidationErrorResponse{ValidationErrors: errs})
			return
		}

		for i := range files {
			enrich(r.Context(), log, geo, &files[i].Meta)
		}

		images, err := processor.Process(r.Context(), user, files)
		if err != nil {
			log.Error("failed to process upload", sl.Err(err))

			details := []models.FileError{}
			var batchErr *upload.BatchError
			if errors.As(err, &batchErr) {
				details = batchErr.Items
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, FailureResponse{Error: "Upload failed", Details: details})
			return
		}

		log.Info("images uploaded", slog.Int64("user_id", user.ID), slog.Int("images", len(images)))

		render.JSON(w, r, struct{}{})
	}
}

func field(i int, name string) string {
	return fmt.Sprintf("images_data[%d][%s]", i, name)
}

// parseForm collects units images_data[0], images_data[1], ... until the
// first index that carries neither an image nor an address.
func parseForm(mf *multipart.Form, defaults models.GeoDefaults) ([]upload.Candidate, []models.FileError) {
	var (
		candidates []upload.Candidate
		errs       []models.FileError
	)

	value := func(key string) string {
		if v := mf.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	for i := 0; ; i++ {
		headers := mf.File[field(i, "image")]
		_, hasAddress := mf.Value[field(i, "address")]
		if len(headers) == 0 && !hasAddress {
			break
		}

		c := upload.Candidate{
			Source: models.SourceDirect,
			Meta:   defaults.Meta(),
		}

		if len(headers) > 0 {
			fh := headers[0]
			c.Name = fh.Filename
			c.ContentType = fh.Header.Get("Content-Type")
			c.Size = fh.Size
			c.Open = func() (io.ReadCloser, error) {
				return fh.Open()
			}
		}

		name := c.Name
		if name == "" {
			name = fmt.Sprintf("file_%d", i)
		}

		if err := parseMeta(&c.Meta, value, i); err != nil {
			errs = append(errs, models.FileError{Index: i, Filename: name, Error: err.Error()})
		}

		candidates = append(candidates, c)
	}

	return candidates, errs
}

func parseMeta(meta *models.GeoMeta, value func(string) string, i int) error {
	if addr := value(field(i, "address")); addr != "" {
		meta.Address = &addr
	}

	var err error

	if meta.Lat, err = parseCoord(value(field(i, "lat")), "lat", "latitude"); err != nil {
		return err
	}

	if meta.Lon, err = parseCoord(value(field(i, "lon")), "lon", "longitude"); err != nil {
		return err
	}

	if (meta.Lat == nil) != (meta.Lon == nil) {
		return errors.New("lat and lon must be given together")
	}

	if v := value(field(i, "angle")); v != "" {
		if meta.Angle, err = strconv.ParseFloat(v, 64); err != nil {
			return errors.New("invalid angle")
		}
	}

	if v := value(field(i, "height")); v != "" {
		if meta.Height, err = strconv.ParseFloat(v, 64); err != nil || meta.Height < 0 {
			return errors.New("invalid height")
		}
	}

	return nil
}

func parseCoord(raw, name, tag string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || validate.Var(v, tag) != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}

	return &v, nil
}

// enrich fills whichever of address and coordinates is missing. Lookup
// failures leave the metadata as it is.
func enrich(ctx context.Context, log *slog.Logger, geo geocoder.Geocoder, meta *models.GeoMeta) {
	switch {
	case meta.Address != nil && !meta.HasCoordinates():
		p, err := geo.Geocode(ctx, *meta.Address)
		if err != nil {
			log.Warn("forward geocoding failed", slog.String("address", *meta.Address), sl.Err(err))
			return
		}
		meta.Lat, meta.Lon = &p.Lat, &p.Lon

	case meta.Address == nil && meta.HasCoordinates():
		addr, err := geo.Reverse(ctx, *meta.Lat, *meta.Lon)
		if err != nil {
			log.Warn("reverse geocoding failed", sl.Err(err))
			return
		}
		meta.Address = &addr
	}
}

// mergeErrors keeps one error per index, the validator's first.
func mergeErrors(errs, extra []models.FileError) []models.FileError {
	seen := make(map[int]struct{}, len(errs))
	for _, e := range errs {
		seen[e.Index] = struct{}{}
	}

	for _, e := range extra {
		if _, ok := seen[e.Index]; !ok {
			errs = append(errs, e)
		}
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Index < errs[j].Index
	})

	return errs
}
