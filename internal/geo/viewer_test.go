package geo_test

import (
	"context"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/geo"
	"rescueRoute/pkg/e"
)

func TestViewerFromQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		query   string
		want    *domain.Coordinate
		wantErr error
	}{
		{"ok", "lat=13.0827&lng=80.2707", &domain.Coordinate{Lat: 13.0827, Lng: 80.2707}, nil},
		{"absent", "", nil, e.ErrLocationUnavailable},
		{"blank", "lat=%20&lng=", nil, e.ErrLocationUnavailable},
		{"only lat", "lat=10", nil, e.ErrInvalidCoordinates},
		{"garbage", "lat=abc&lng=10", nil, e.ErrInvalidCoordinates},
		{"nan", "lat=NaN&lng=10", nil, e.ErrInvalidCoordinates},
		{"inf", "lat=10&lng=Inf", nil, e.ErrInvalidCoordinates},
		{"out of range", "lat=91&lng=10", nil, e.ErrInvalidCoordinates},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			got, err := geo.ViewerFromQuery(q)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("coordinates win over address", func(t *testing.T) {
		t.Parallel()
		stub := &geocoderStub{coord: &domain.Coordinate{Lat: 1, Lng: 1}}
		r := geo.NewResolver(stub, slog.Default())

		got, err := r.Resolve(ctx, url.Values{"lat": {"10"}, "lng": {"20"}, "address": {"Delhi"}})

		require.NoError(t, err)
		assert.Equal(t, &domain.Coordinate{Lat: 10, Lng: 20}, got)
		assert.Zero(t, stub.calls)
	})

	t.Run("invalid coordinates are not geocoded", func(t *testing.T) {
		t.Parallel()
		stub := &geocoderStub{coord: &domain.Coordinate{Lat: 1, Lng: 1}}
		r := geo.NewResolver(stub, slog.Default())

		_, err := r.Resolve(ctx, url.Values{"lat": {"100"}, "lng": {"20"}, "address": {"Delhi"}})

		require.ErrorIs(t, err, e.ErrInvalidCoordinates)
		assert.Zero(t, stub.calls)
	})

	t.Run("address geocoded", func(t *testing.T) {
		t.Parallel()
		stub := &geocoderStub{coord: &domain.Coordinate{Lat: 28.61, Lng: 77.2}}
		r := geo.NewResolver(stub, slog.Default())

		got, err := r.Resolve(ctx, url.Values{"address": {"New Delhi"}})

		require.NoError(t, err)
		assert.Equal(t, stub.coord, got)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("geocoder failure degrades", func(t *testing.T) {
		t.Parallel()
		stub := &geocoderStub{err: assert.AnError}
		r := geo.NewResolver(stub, slog.Default())

		got, err := r.Resolve(ctx, url.Values{"address": {"Atlantis"}})

		require.ErrorIs(t, err, e.ErrLocationUnavailable)
		assert.Nil(t, got)
	})

	t.Run("geocoder returns junk", func(t *testing.T) {
		t.Parallel()
		stub := &geocoderStub{coord: &domain.Coordinate{Lat: 500, Lng: 0}}
		r := geo.NewResolver(stub, slog.Default())

		_, err := r.Resolve(ctx, url.Values{"address": {"Nowhere"}})

		require.ErrorIs(t, err, e.ErrLocationUnavailable)
	})

	t.Run("no geocoder", func(t *testing.T) {
		t.Parallel()
		r := geo.NewResolver(nil, slog.Default())

		_, err := r.Resolve(ctx, url.Values{"address": {"Mumbai"}})

		require.ErrorIs(t, err, e.ErrLocationUnavailable)
	})
}
