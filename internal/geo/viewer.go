package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/ranking"
	"rescueRoute/pkg/e"
)

// ViewerFromQuery reads the viewer coordinate from lat/lng query params.
// Absent params yield e.ErrLocationUnavailable; anything malformed yields
// e.ErrInvalidCoordinates.
func ViewerFromQuery(q url.Values) (*domain.Coordinate, error) {
	latStr := strings.TrimSpace(q.Get("lat"))
	lngStr := strings.TrimSpace(q.Get("lng"))

	if latStr == "" && lngStr == "" {
		return nil, e.ErrLocationUnavailable
	}
	if latStr == "" || lngStr == "" {
		return nil, fmt.Errorf("both lat and lng are required: %w", e.ErrInvalidCoordinates)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("lat %q: %w", latStr, e.ErrInvalidCoordinates)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, fmt.Errorf("lng %q: %w", lngStr, e.ErrInvalidCoordinates)
	}

	c := domain.Coordinate{Lat: lat, Lng: lng}
	if err := ranking.Validate(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Resolver turns a request query into a viewer coordinate, geocoding the
// address param when no coordinates were sent.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
}

// NewResolver accepts a nil geocoder; address lookups are then skipped.
func NewResolver(geocoder Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Resolve returns the viewer or an error. Only e.ErrInvalidCoordinates
// should fail a request; e.ErrLocationUnavailable means rank without a
// viewer.
func (r *Resolver) Resolve(ctx context.Context, q url.Values) (*domain.Coordinate, error) {
	viewer, err := ViewerFromQuery(q)
	if err == nil || !errors.Is(err, e.ErrLocationUnavailable) {
		return viewer, err
	}

	address := strings.TrimSpace(q.Get("address"))
	if address == "" || r.geocoder == nil {
		return nil, e.ErrLocationUnavailable
	}

	c, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		r.logger.WarnContext(ctx, "viewer geocoding failed, ranking without location",
			slog.String("address", address),
			slog.Any("error", err),
		)
		return nil, e.ErrLocationUnavailable
	}
	if err := ranking.Validate(*c); err != nil {
		r.logger.WarnContext(ctx, "geocoder returned invalid coordinate", slog.Any("error", err))
		return nil, e.ErrLocationUnavailable
	}
	return c, nil
}
