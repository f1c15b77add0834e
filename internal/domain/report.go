package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportFire     ReportType = "fire"
	ReportAccident ReportType = "accident"
	ReportMedical  ReportType = "medical"
	ReportPolice   ReportType = "police"
	ReportOther    ReportType = "other"
	ReportWeather  ReportType = "weather"
	ReportMissing  ReportType = "missing"
)

// NormalizeReportType lowercases and trims a client supplied type. Types
// outside the known set are stored as sent.
func NormalizeReportType(t ReportType) ReportType {
	return ReportType(strings.ToLower(strings.TrimSpace(string(t))))
}

// Valid reports whether t is one of the known types the list filter accepts.
func (t ReportType) Valid() bool {
	switch t {
	case ReportFire, ReportAccident, ReportMedical, ReportPolice, ReportOther, ReportWeather, ReportMissing:
		return true
	}
	return false
}

type Report struct {
	ID               uuid.UUID   `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ReportType       ReportType  `json:"reportType"`
	MediaURL         string      `json:"mediaUrl"`
	LiveLocationLink string      `json:"liveLocationLink"`
	Location         *Coordinate `json:"location"`
	Address          string      `json:"address,omitempty"`
	Timestamp        time.Time   `json:"timestamp"`
}

// RankedReport is a Report decorated for one viewer. DistanceKm is only used
// for ordering and display and is never persisted.
type RankedReport struct {
	Report
	DistanceKm float64 `json:"distanceKm"`
}
