package domain

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"` // -90..90
	Lng float64 `json:"lng"` // -180..180
}
