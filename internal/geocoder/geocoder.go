package geocoder

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("address not found")

type Point struct {
	Lat float64
	Lon float64
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Geocoder
// Geocoder translates between addresses and coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Point, error)
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Noop is used when geocoding is disabled. It never finds anything.
type Noop struct{}

func (Noop) Geocode(context.Context, string) (*Point, error) {
	return nil, ErrNotFound
}

func (Noop) Reverse(context.Context, float64, float64) (string, error) {
	return "", ErrNotFound
}
