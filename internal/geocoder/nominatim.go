package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/time/rate"
	"imageLocator/internal/config"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Nominatim is a Geocoder backed by an OpenStreetMap Nominatim server.
// Requests are throttled to the configured rate.
type Nominatim struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

func NewNominatim(cfg *config.Geocoder) *Nominatim {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}

	return &Nominatim{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (*Point, error) {
	const op = "geocoder.Nominatim.Geocode"

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	var results []searchResult
	if err := n.get(ctx, "/search", q, &results); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%s: %q: %w", op, address, ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: bad lat: %w", op, err)
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: bad lon: %w", op, err)
	}

	return &Point{Lat: lat, Lon: lon}, nil
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	const op = "geocoder.Nominatim.Reverse"

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "jsonv2")

	var result reverseResult
	if err := n.get(ctx, "/reverse", q, &result); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if result.Error != "" || result.DisplayName == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return result.DisplayName, nil
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values, dst any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
