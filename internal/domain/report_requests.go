package domain

import "time"

type LocationInput struct {
	Lat     *float64 `json:"lat" validate:"omitempty,finite,lat"`
	Lng     *float64 `json:"lng" validate:"omitempty,finite,lng"`
	Address string   `json:"address" validate:"max=512"`
}

type CreateReportRequest struct {
	Title            string         `json:"title" validate:"required,max=200"`
	Description      string         `json:"description" validate:"required,max=5000"`
	ReportType       ReportType     `json:"reportType" validate:"required,max=64"`
	MediaURL         string         `json:"mediaUrl" validate:"omitempty,url"`
	LiveLocationLink string         `json:"liveLocationLink" validate:"omitempty,url"`
	Location         *LocationInput `json:"location"`
	Timestamp        *time.Time     `json:"timestamp"`
}

type CreateReportResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type RankOrder string

const (
	OrderRecency   RankOrder = "recency"
	OrderProximity RankOrder = "distance"
)

type ListReportsRequest struct {
	Viewer *Coordinate
	Type   ReportType
	Order  RankOrder
}
