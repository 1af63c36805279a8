package geocoder_test

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/require"
	"imageLocator/internal/config"
	"imageLocator/internal/geocoder"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newNominatim(t *testing.T, handler http.HandlerFunc) *geocoder.Nominatim {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return geocoder.NewNominatim(&config.Geocoder{
		BaseURL:   srv.URL,
		UserAgent: "image-locator-test",
		Timeout:   time.Second,
		RPS:       100,
	})
}

func TestNominatim_Geocode(t *testing.T) {
	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "image-locator-test", r.Header.Get("User-Agent"))
		require.Equal(t, "jsonv2", r.URL.Query().Get("format"))

		if r.URL.Query().Get("q") == "nowhere" {
			_, _ = fmt.Fprint(w, `[]`)
			return
		}
		_, _ = fmt.Fprint(w, `[{"lat":"55.7558","lon":"37.6173","display_name":"Moscow"}]`)
	})

	p, err := n.Geocode(context.Background(), "Red Square, Moscow")
	require.NoError(t, err)
	require.InDelta(t, 55.7558, p.Lat, 1e-9)
	require.InDelta(t, 37.6173, p.Lon, 1e-9)

	_, err = n.Geocode(context.Background(), "nowhere")
	require.ErrorIs(t, err, geocoder.ErrNotFound)
}

func TestNominatim_Reverse(t *testing.T) {
	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)

		if r.URL.Query().Get("lat") == "0" {
			_, _ = fmt.Fprint(w, `{"error":"Unable to geocode"}`)
			return
		}
		require.Equal(t, "10.5", r.URL.Query().Get("lat"))
		require.Equal(t, "20", r.URL.Query().Get("lon"))
		_, _ = fmt.Fprint(w, `{"display_name":"Somewhere, Earth"}`)
	})

	addr, err := n.Reverse(context.Background(), 10.5, 20)
	require.NoError(t, err)
	require.Equal(t, "Somewhere, Earth", addr)

	_, err = n.Reverse(context.Background(), 0, 0)
	require.ErrorIs(t, err, geocoder.ErrNotFound)
}

func TestNominatim_ServerError(t *testing.T) {
	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := n.Geocode(context.Background(), "anything")
	require.ErrorContains(t, err, "unexpected status 503")
}

func TestNoop(t *testing.T) {
	_, err := geocoder.Noop{}.Geocode(context.Background(), "x")
	require.ErrorIs(t, err, geocoder.ErrNotFound)

	_, err = geocoder.Noop{}.Reverse(context.Background(), 1, 2)
	require.ErrorIs(t, err, geocoder.ErrNotFound)
}
