package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResourceRequest is a plea for relief supplies (food, shelter, medicine).
type ResourceRequest struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Info        string    `json:"info"`
	Geolocation string    `json:"geolocation"`
	UPI         string    `json:"upi"`
	Timestamp   time.Time `json:"timestamp"`
}

type CreateResourceRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"required,max=32"`
	Type        string `json:"type" validate:"required,max=64"`
	Location    string `json:"location" validate:"max=256"`
	Info        string `json:"info" validate:"max=2000"`
	Geolocation string `json:"geolocation" validate:"max=512"`
	UPI         string `json:"upi" validate:"max=128"`
}

type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)
