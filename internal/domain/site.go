package domain

import (
	"time"

	"github.com/google/uuid"
)

type SiteStatus string

const (
	SiteActive   SiteStatus = "active"
	SiteInactive SiteStatus = "inactive"
)

// OfficeSite is the geofence an employee checks in against. QRSecret is the
// expected decoded QR payload and doubles as the manual office code.
type OfficeSite struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Latitude     float64    `json:"latitude" validate:"lat"`
	Longitude    float64    `json:"longitude" validate:"lng"`
	RadiusMeters float64    `json:"radius_meters" validate:"gt=0"`
	QRSecret     string     `json:"-"`
	Status       SiteStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (s OfficeSite) Center() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

type CreateSiteRequest struct {
	Name         string     `json:"name" validate:"required,max=128"`
	Latitude     float64    `json:"latitude" validate:"lat"`
	Longitude    float64    `json:"longitude" validate:"lng"`
	RadiusMeters float64    `json:"radius_meters" validate:"radius_m"`
	QRSecret     string     `json:"qr_secret" validate:"required,max=256"`
	Status       SiteStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateSiteRequest struct {
	Name         *string     `json:"name" validate:"omitempty,max=128"`
	Latitude     *float64    `json:"latitude" validate:"omitempty,lat"`
	Longitude    *float64    `json:"longitude" validate:"omitempty,lng"`
	RadiusMeters *float64    `json:"radius_meters" validate:"omitempty,radius_m"`
	QRSecret     *string     `json:"qr_secret" validate:"omitempty,max=256"`
	Status       *SiteStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ListSitesResponse struct {
	Sites []*OfficeSite `json:"sites"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}
