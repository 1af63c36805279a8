package listLocations_test

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/http-server/handlers/locations/listLocations"
	"imageLocator/internal/http-server/handlers/locations/listLocations/mocks"
	"imageLocator/internal/http-server/middleware/auth"
	"imageLocator/internal/lib/logger/handlers/slogdiscard"
	"imageLocator/internal/models"
	"imageLocator/internal/storage"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var (
	user      = models.User{ID: 5, Username: "alice"}
	createdAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T {
	return &v
}

func located() models.GeoTask {
	return models.GeoTask{
		ID:        3,
		Status:    models.StatusDone,
		UserID:    user.ID,
		ImageID:   9,
		Address:   ptr("Red Square"),
		Lat:       ptr(55.75),
		Lon:       ptr(37.62),
		Height:    1.5,
		CreatedAt: createdAt,
		User:      &user,
		Image:     &models.StoredImage{ID: 9, Key: "k1_a.jpg", URL: "http://s3/images/k1_a.jpg"},
		Detected: []models.DetectedEntry{
			{ID: 1, TaskID: 3, ImageID: 10, Lat: 55.7, Lon: 37.6,
				Image: &models.StoredImage{ID: 10, Key: "k2_b.jpg", URL: "http://s3/images/k2_b.jpg"}},
		},
	}
}

func pending() models.GeoTask {
	return models.GeoTask{
		ID:        2,
		Status:    models.StatusProcessing,
		UserID:    user.ID,
		ImageID:   8,
		Height:    1.5,
		CreatedAt: createdAt,
		User:      &user,
		Image:     &models.StoredImage{ID: 8, Key: "k0_c.jpg", URL: "http://s3/images/k0_c.jpg"},
	}
}

func TestListLocations(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(l *mocks.TaskLister, p *mocks.Presigner)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "First page with previews",
			query: "",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, storage.TaskFilter{UserID: 5, Limit: 10, Offset: 0}).
					Return([]models.GeoTask{located()}, 1, nil).Once()
				p.On("PresignGet", mock.Anything, "k1_a.jpg", time.Hour).Return("http://cdn/k1_a.jpg?sig", nil).Once()
				p.On("PresignGet", mock.Anything, "k2_b.jpg", time.Hour).Return("", errors.New("signing failed")).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"meta": {"per_page": 10, "current_page": 1, "last_page": 1, "total": 1, "from": 1},
				"data": [{
					"id": 3, "status": "done", "address": "Red Square", "lat": 55.75, "lon": 37.62,
					"angle": 0, "height": 1.5, "failure_reason": null, "created_at": "2024-05-01T10:00:00Z",
					"user": {"id": 5, "username": "alice"},
					"image": {"id": 9, "filename": "k1_a.jpg", "file_path": "http://s3/images/k1_a.jpg", "preview_url": "http://cdn/k1_a.jpg?sig"},
					"detected": [{"id": 1, "lat": 55.7, "lon": 37.6,
						"image": {"id": 10, "filename": "k2_b.jpg", "file_path": "http://s3/images/k2_b.jpg"}}]
				}]
			}`,
		},
		{
			name:  "Page size is capped",
			query: "?page=2&page_size=500",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, storage.TaskFilter{UserID: 5, Limit: 100, Offset: 100}).
					Return([]models.GeoTask{}, 150, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"meta": {"per_page": 100, "current_page": 2, "last_page": 2, "total": 150, "from": 101}, "data": []}`,
		},
		{
			name:  "Empty result",
			query: "",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, mock.Anything).Return([]models.GeoTask{}, 0, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"meta": {"per_page": 10, "current_page": 1, "last_page": 1, "total": 0, "from": 0}, "data": []}`,
		},
		{
			name:  "Date range is inclusive",
			query: "?created_date_after=2024-05-01&created_date_before=2024-05-02",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, mock.MatchedBy(func(f storage.TaskFilter) bool {
					return f.CreatedFrom.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) &&
						f.CreatedUntil.Equal(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
				})).Return([]models.GeoTask{}, 0, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"meta": {"per_page": 10, "current_page": 1, "last_page": 1, "total": 0, "from": 0}, "data": []}`,
		},
		{
			name:  "Radius filter adds distance",
			query: "?lat=55.75&lon=37.62",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, storage.TaskFilter{
					UserID:   5,
					Center:   &storage.Point{Lat: 55.75, Lon: 37.62},
					RadiusKm: 10,
					Limit:    10,
				}).Return([]models.GeoTask{pending()}, 1, nil).Once()
				p.On("PresignGet", mock.Anything, "k0_c.jpg", time.Hour).Return("http://cdn/k0_c.jpg", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"meta": {"per_page": 10, "current_page": 1, "last_page": 1, "total": 1, "from": 1},
				"data": [{
					"id": 2, "status": "processing", "address": null, "lat": null, "lon": null,
					"angle": 0, "height": 1.5, "failure_reason": null, "created_at": "2024-05-01T10:00:00Z",
					"user": {"id": 5, "username": "alice"},
					"image": {"id": 8, "filename": "k0_c.jpg", "file_path": "http://s3/images/k0_c.jpg", "preview_url": "http://cdn/k0_c.jpg"},
					"detected": []
				}]
			}`,
		},
		{
			name:           "Bad date",
			query:          "?created_date_after=01.05.2024",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status": "Error", "error": "invalid created_date_after, expected YYYY-MM-DD: 01.05.2024"}`,
		},
		{
			name:           "Latitude without longitude",
			query:          "?lat=10",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status": "Error", "error": "lat and lon must be given together"}`,
		},
		{
			name:           "Latitude out of range",
			query:          "?lat=91&lon=10",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status": "Error", "error": "invalid lat: 91"}`,
		},
		{
			name:           "Bad page",
			query:          "?page=0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status": "Error", "error": "invalid page: 0"}`,
		},
		{
			name:  "Page beyond the last one",
			query: "?page=3",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, storage.TaskFilter{UserID: 5, Limit: 10, Offset: 20}).
					Return([]models.GeoTask{}, 5, nil).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status": "Error", "error": "page not found"}`,
		},
		{
			name:           "Page whose offset overflows",
			query:          "?page=9223372036854775807&page_size=100",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status": "Error", "error": "page not found"}`,
		},
		{
			name:  "Largest page with a representable offset",
			query: "?page=92233720368547758&page_size=100",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, storage.TaskFilter{UserID: 5, Limit: 100, Offset: 9223372036854775700}).
					Return([]models.GeoTask{}, 5, nil).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status": "Error", "error": "page not found"}`,
		},
		{
			name:  "Storage error",
			query: "",
			setup: func(l *mocks.TaskLister, p *mocks.Presigner) {
				l.On("ListTasks", mock.Anything, mock.Anything).Return(nil, 0, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status": "Error", "error": "failed to list image locations"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listerMock := mocks.NewTaskLister(t)
			presignerMock := mocks.NewPresigner(t)
			if tt.setup != nil {
				tt.setup(listerMock, presignerMock)
			}

			req := httptest.NewRequest(http.MethodGet, "/user/image-locations"+tt.query, nil)
			req = req.WithContext(auth.WithUser(req.Context(), user))

			rr := httptest.NewRecorder()
			listLocations.New(slogdiscard.NewDiscardLogger(), listerMock, presignerMock, time.Hour).ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)

			var actualMap, expectedMap map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &actualMap))
			require.NoError(t, json.Unmarshal([]byte(tt.expectedBody), &expectedMap))
			require.Equal(t, expectedMap, actualMap)
		})
	}
}

func TestListLocations_GeoJSON(t *testing.T) {
	listerMock := mocks.NewTaskLister(t)
	presignerMock := mocks.NewPresigner(t)

	listerMock.On("ListTasks", mock.Anything, mock.Anything).
		Return([]models.GeoTask{located(), pending()}, 2, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/image-locations.geojson", nil)
	ctx := auth.WithUser(req.Context(), user)
	ctx = context.WithValue(ctx, middleware.URLFormatCtxKey, "geojson")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	listLocations.New(slogdiscard.NewDiscardLogger(), listerMock, presignerMock, time.Hour).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/geo+json", rr.Header().Get("Content-Type"))
	require.Equal(t, "2", rr.Header().Get("X-Total-Count"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       float64 `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fc))

	require.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	require.Equal(t, float64(3), fc.Features[0].ID)
	require.Equal(t, "Point", fc.Features[0].Geometry.Type)
	require.Equal(t, []float64{37.62, 55.75}, fc.Features[0].Geometry.Coordinates)
	require.Equal(t, "done", fc.Features[0].Properties["status"])
	require.Equal(t, "Red Square", fc.Features[0].Properties["address"])
}
