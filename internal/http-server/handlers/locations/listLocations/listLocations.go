package listLocations

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/paulmach/go.geojson"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/lib/api/response"
	"imageLocator/internal/lib/geo"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/storage"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultRadiusKm = 10.0
	dateLayout      = "2006-01-02"
	formatGeoJSON   = "geojson"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TaskLister
type TaskLister interface {
	ListTasks(ctx context.Context, f storage.TaskFilter) ([]models.GeoTask, int, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Presigner
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Meta struct {
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
}

type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type ImageView struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	FilePath   string `json:"file_path"`
	PreviewURL string `json:"preview_url,omitempty"`
}

type DetectedView struct {
	ID    int64      `json:"id"`
	Lat   float64    `json:"lat"`
	Lon   float64    `json:"lon"`
	Image *ImageView `json:"image,omitempty"`
}

type LocationView struct {
	ID            int64             `json:"id"`
	Status        models.TaskStatus `json:"status"`
	Address       *string           `json:"address"`
	Lat           *float64          `json:"lat"`
	Lon           *float64          `json:"lon"`
	Angle         float64           `json:"angle"`
	Height        float64           `json:"height"`
	FailureReason *string           `json:"failure_reason"`
	CreatedAt     time.Time         `json:"created_at"`
	DistanceKm    *float64          `json:"distance_km,omitempty"`
	User          UserView          `json:"user"`
	Image         *ImageView        `json:"image"`
	Detected      []DetectedView    `json:"detected"`
}

type Response struct {
	Meta Meta           `json:"meta"`
	Data []LocationView `json:"data"`
}

var (
	validate = validator.New()

	errPageNotFound = errors.New("page not found")
)

type query struct {
	page     int
	pageSize int
	filter   storage.TaskFilter
}

// New lists the caller's image locations page by page.
// @Summary      Lists image locations
// @Description  Returns the user's geolocation tasks, newest first. The .geojson variant returns a FeatureCollection of located tasks.
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        page                 query  int     false  "Page number"
// @Param        page_size            query  int     false  "Page size, at most 100"
// @Param        created_date_after   query  string  false  "YYYY-MM-DD, inclusive"
// @Param        created_date_before  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        lat                  query  number  false  "Center latitude"
// @Param        lon                  query  number  false  "Center longitude"
// @Param        radius_km            query  number  false  "Radius around the center, 10 by default"
// @Success      200  {object}  listLocations.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /user/image-locations [get]
func New(log *slog.Logger, lister TaskLister, presigner Presigner, previewTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.locations.listLocations.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		q, err := parseQuery(r.URL.Query())
		if errors.Is(err, errPageNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		q.filter.UserID = user.ID

		tasks, total, err := lister.ListTasks(r.Context(), q.filter)
		if err != nil {
			log.Error("failed to list tasks", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list image locations"))
			return
		}

		meta, err := pageMeta(q, total)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		if format, _ := r.Context().Value(middleware.URLFormatCtxKey).(string); format == formatGeoJSON {
			writeGeoJSON(w, log, tasks, q.filter, meta)
			return
		}

		p := previewer{ctx: r.Context(), log: log, presigner: presigner, ttl: previewTTL}

		data := make([]LocationView, 0, len(tasks))
		for _, task := range tasks {
			data = append(data, toView(task, q.filter.Center, p))
		}

		render.JSON(w, r, Response{Meta: meta, Data: data})
	}
}

func parseQuery(values url.Values) (query, error) {
	q := query{page: 1, pageSize: defaultPageSize}

	var err error

	if v := values.Get("page"); v != "" {
		if q.page, err = strconv.Atoi(v); err != nil || q.page < 1 {
			return q, fmt.Errorf("invalid page: %s", v)
		}
	}

	if v := values.Get("page_size"); v != "" {
		if q.pageSize, err = strconv.Atoi(v); err != nil || q.pageSize < 1 {
			return q, fmt.Errorf("invalid page_size: %s", v)
		}
		q.pageSize = min(q.pageSize, maxPageSize)
	}

	if v := values.Get("created_date_after"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			return q, fmt.Errorf("invalid created_date_after, expected YYYY-MM-DD: %s", v)
		}
		q.filter.CreatedFrom = &from
	}

	if v := values.Get("created_date_before"); v != "" {
		until, err := time.Parse(dateLayout, v)
		if err != nil {
			return q, fmt.Errorf("invalid created_date_before, expected YYYY-MM-DD: %s", v)
		}
		until = until.Add(24 * time.Hour)
		q.filter.CreatedUntil = &until
	}

	latRaw, lonRaw := values.Get("lat"), values.Get("lon")
	if latRaw != "" || lonRaw != "" {
		center, err := parseCenter(latRaw, lonRaw)
		if err != nil {
			return q, err
		}
		q.filter.Center = center
		q.filter.RadiusKm = defaultRadiusKm

		if v := values.Get("radius_km"); v != "" {
			radius, err := strconv.ParseFloat(v, 64)
			if err != nil || radius <= 0 {
				return q, fmt.Errorf("invalid radius_km: %s", v)
			}
			q.filter.RadiusKm = radius
		}
	}

	// No count fits more rows than an int holds, so a page whose offset
	// overflows is past the last page whatever the total.
	if q.page-1 > math.MaxInt/q.pageSize {
		return q, errPageNotFound
	}

	q.filter.Limit = q.pageSize
	q.filter.Offset = (q.page - 1) * q.pageSize

	return q, nil
}

func parseCenter(latRaw, lonRaw string) (*storage.Point, error) {
	if latRaw == "" || lonRaw == "" {
		return nil, errors.New("lat and lon must be given together")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || validate.Var(lat, "latitude") != nil {
		return nil, fmt.Errorf("invalid lat: %s", latRaw)
	}

	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil || validate.Var(lon, "longitude") != nil {
		return nil, fmt.Errorf("invalid lon: %s", lonRaw)
	}

	return &storage.Point{Lat: lat, Lon: lon}, nil
}

func pageMeta(q query, total int) (Meta, error) {
	lastPage := max(1, int(math.Ceil(float64(total)/float64(q.pageSize))))
	if q.page > lastPage {
		return Meta{}, errPageNotFound
	}

	from := 0
	if total > 0 {
		from = q.filter.Offset + 1
	}

	return Meta{
		PerPage:     q.pageSize,
		CurrentPage: q.page,
		LastPage:    lastPage,
		Total:       total,
		From:        from,
	}, nil
}

// previewer signs image URLs for the page being rendered. A signing failure
// leaves preview_url empty.
type previewer struct {
	ctx       context.Context
	log       *slog.Logger
	presigner Presigner
	ttl       time.Duration
}

func (p previewer) image(img *models.StoredImage) *ImageView {
	if img == nil {
		return nil
	}

	view := &ImageView{
		ID:       img.ID,
		Filename: img.Key,
		FilePath: img.URL,
	}

	preview, err := p.presigner.PresignGet(p.ctx, img.Key, p.ttl)
	if err != nil {
		p.log.Warn("failed to presign image", slog.String("key", img.Key), sl.Err(err))
		return view
	}
	view.PreviewURL = preview

	return view
}

func toView(task models.GeoTask, center *storage.Point, p previewer) LocationView {
	view := LocationView{
		ID:            task.ID,
		Status:        task.Status,
		Address:       task.Address,
		Lat:           task.Lat,
		Lon:           task.Lon,
		Angle:         task.Angle,
		Height:        task.Height,
		FailureReason: task.FailureReason,
		CreatedAt:     task.CreatedAt,
		DistanceKm:    distance(task, center),
		Image:         p.image(task.Image),
		Detected:      make([]DetectedView, 0, len(task.Detected)),
	}

	if task.User != nil {
		view.User = UserView{ID: task.User.ID, Username: task.User.Username}
	} else {
		view.User = UserView{ID: task.UserID}
	}

	for _, d := range task.Detected {
		view.Detected = append(view.Detected, DetectedView{
			ID:    d.ID,
			Lat:   d.Lat,
			Lon:   d.Lon,
			Image: p.image(d.Image),
		})
	}

	return view
}

func distance(task models.GeoTask, center *storage.Point) *float64 {
	if center == nil || task.Lat == nil || task.Lon == nil {
		return nil
	}

	d := geo.DistanceKm(center.Lat, center.Lon, *task.Lat, *task.Lon)
	d = math.Round(d*1000) / 1000

	return &d
}

func writeGeoJSON(w http.ResponseWriter, log *slog.Logger, tasks []models.GeoTask, f storage.TaskFilter, meta Meta) {
	fc := geojson.NewFeatureCollection()

	for _, task := range tasks {
		if task.Lat == nil || task.Lon == nil {
			continue
		}

		feature := geojson.NewPointFeature([]float64{*task.Lon, *task.Lat})
		feature.ID = task.ID
		feature.SetProperty("status", string(task.Status))
		feature.SetProperty("angle", task.Angle)
		feature.SetProperty("height", task.Height)
		feature.SetProperty("created_at", task.CreatedAt.Format(time.RFC3339))
		if task.Address != nil {
			feature.SetProperty("address", *task.Address)
		}
		if task.Image != nil {
			feature.SetProperty("image_id", task.Image.ID)
			feature.SetProperty("filename", task.Image.Key)
		}
		if d := distance(task, f.Center); d != nil {
			feature.SetProperty("distance_km", *d)
		}

		fc.AddFeature(feature)
	}

	body, err := fc.MarshalJSON()
	if err != nil {
		log.Error("failed to encode geojson", sl.Err(err))
		http.Error(w, "failed to encode geojson", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("X-Total-Count", strconv.Itoa(meta.Total))
	w.Header().Set("X-Page", strconv.Itoa(meta.CurrentPage))
	w.Header().Set("X-Last-Page", strconv.Itoa(meta.LastPage))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
