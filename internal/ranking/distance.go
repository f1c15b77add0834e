package ranking

import (
	"fmt"
	"math"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometres
// (Haversine). Inputs are not range checked.
func Distance(a, b domain.Coordinate) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLon := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Validate rejects non-finite or out-of-range coordinates. Callers run it
// before handing a viewer to Rank.
func Validate(c domain.Coordinate) error {
	if !finite(c.Lat) || !finite(c.Lng) {
		return fmt.Errorf("lat=%v lng=%v: not finite: %w", c.Lat, c.Lng, e.ErrInvalidCoordinates)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("lat=%v lng=%v: out of range: %w", c.Lat, c.Lng, e.ErrInvalidCoordinates)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
