package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"

	"rescueRoute/internal/domain"
)

// Geocoder converts a free-form address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinate, error)
}

// GoogleAPIClient is the subset of *maps.Client the geocoder needs.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when Google finds nothing for an address.
var ErrEmptyResponse = errors.New("empty response from Google Maps API")

type GoogleGeocoder struct {
	client GoogleAPIClient
	log    *slog.Logger
}

func NewGoogleGeocoder(client GoogleAPIClient, log *slog.Logger) *GoogleGeocoder {
	return &GoogleGeocoder{client: client, log: log}
}

// NewGoogleGeocoderFromKey builds a rate limited Maps client. An empty key
// returns nil, nil: geocoding is optional.
func NewGoogleGeocoderFromKey(apiKey string, rateLimit int, log *slog.Logger) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, nil
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if rateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(rateLimit))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}
	return NewGoogleGeocoder(client, log), nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	g.log.DebugContext(ctx, "geocoding using Google Maps", slog.String("address", address))

	res, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	if len(res) == 0 {
		return nil, ErrEmptyResponse
	}

	loc := res[0].Geometry.Location
	return &domain.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}
