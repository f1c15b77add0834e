package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportNotification is what partner agencies receive for every new report.
type ReportNotification struct {
	ReportID   uuid.UUID   `json:"reportId"`
	Title      string      `json:"title"`
	ReportType ReportType  `json:"reportType"`
	Location   *Coordinate `json:"location,omitempty"`
	Address    string      `json:"address,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
