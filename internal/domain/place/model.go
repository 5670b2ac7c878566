// internal/domain/place/model.go

package place

import (
	"time"
)

// PriceType classifies a place as free or paid
type PriceType string

const (
	PriceFree PriceType = "free"
	PricePaid PriceType = "paid"
)

// TypeForPrice derives the price type from a price
func TypeForPrice(price float64) PriceType {
	if price > 0 {
		return PricePaid
	}
	return PriceFree
}

// Place represents a normalized bookable experience or event
type Place struct {
	ID             string     `json:"id" validate:"required"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	City           string     `json:"city"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Latitude       *float64   `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64   `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Price          float64    `json:"price" validate:"min=0"`
	Type           PriceType  `json:"type"`
	ExternalSource string     `json:"externalSource,omitempty"`
	VideoIDs       []string   `json:"videoIds,omitempty"`
}

// HasCoordinates reports whether the place is geocoded
func (p Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// HasVideo reports whether the place already has a native video
func (p Place) HasVideo() bool {
	return len(p.VideoIDs) > 0
}

// Video represents a short-form video that can be matched to places
type Video struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	ViewCount   int64    `json:"viewCount" validate:"min=0"`
}

// Filter defines criteria for loading places from a store
type Filter struct {
	City     string
	Category string
	Limit    int
}
