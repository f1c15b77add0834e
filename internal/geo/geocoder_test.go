package geo_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/geo"
)

type googleClientMock struct {
	mock.Mock
}

func (m *googleClientMock) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)
	res, _ := args.Get(0).([]maps.GeocodingResult)
	return res, args.Error(1)
}

type geocoderStub struct {
	coord *domain.Coordinate
	err   error
	calls int
}

func (s *geocoderStub) Geocode(_ context.Context, _ string) (*domain.Coordinate, error) {
	s.calls++
	return s.coord, s.err
}

func TestGoogleGeocoder_Geocode(t *testing.T) {
	client := &googleClientMock{}
	g := geo.NewGoogleGeocoder(client, slog.Default())
	ctx := context.Background()

	t.Run("api error", func(t *testing.T) {
		client.On("Geocode", ctx, &maps.GeocodingRequest{Address: "nowhere"}).
			Return(nil, assert.AnError).Once()

		_, err := g.Geocode(ctx, "nowhere")

		require.ErrorIs(t, err, assert.AnError)
		client.AssertExpectations(t)
	})

	t.Run("empty response", func(t *testing.T) {
		client.On("Geocode", ctx, &maps.GeocodingRequest{Address: "empty"}).
			Return(nil, nil).Once()

		c, err := g.Geocode(ctx, "empty")

		require.Nil(t, c)
		require.ErrorIs(t, err, geo.ErrEmptyResponse)
		client.AssertExpectations(t)
	})

	t.Run("ok", func(t *testing.T) {
		client.On("Geocode", ctx, &maps.GeocodingRequest{Address: "Marina Beach, Chennai"}).
			Return([]maps.GeocodingResult{
				{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 13.05, Lng: 80.28}}},
			}, nil).Once()

		c, err := g.Geocode(ctx, "Marina Beach, Chennai")

		require.NoError(t, err)
		require.InEpsilon(t, 13.05, c.Lat, 0.001)
		require.InEpsilon(t, 80.28, c.Lng, 0.001)
		client.AssertExpectations(t)
	})
}

func TestNewGoogleGeocoderFromKey_EmptyKey(t *testing.T) {
	t.Parallel()

	g, err := geo.NewGoogleGeocoderFromKey("", 10, slog.Default())

	require.NoError(t, err)
	assert.Nil(t, g)
}
