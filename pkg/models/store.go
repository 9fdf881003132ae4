package models

import (
	"time"
)

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

type Contact struct {
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`
}

type OperatingHours struct {
	Day       string `bson:"day" json:"day"`
	Open      bool   `bson:"open" json:"open"`
	OpenTime  string `bson:"open_time" json:"openTime"`
	CloseTime string `bson:"close_time" json:"closeTime"`
}

type Store struct {
	ID             string           `bson:"_id,omitempty" json:"id"`
	OwnerID        string           `bson:"owner_id" json:"ownerId"`
	Name           string           `bson:"name" json:"name"`
	Description    string           `bson:"description" json:"description"`
	Logo           string           `bson:"logo" json:"logo"`
	CoverImage     string           `bson:"cover_image" json:"coverImage"`
	Address        Address          `bson:"address" json:"address"`
	Location       GeoPoint         `bson:"location" json:"location"`
	Contact        Contact          `bson:"contact" json:"contact"`
	OperatingHours []OperatingHours `bson:"operating_hours" json:"operatingHours"`
	Categories     []string         `bson:"categories" json:"categories"`
	AverageRating  float64          `bson:"average_rating" json:"averageRating"`
	TotalReviews   int64            `bson:"total_reviews" json:"totalReviews"`
	IsActive       bool             `bson:"is_active" json:"isActive"`
	IsVerified     bool             `bson:"is_verified" json:"isVerified"`
	CreatedAt      time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at" json:"updated_at"`
}

// DefaultOperatingHours returns a full week open 09:00-17:00.
func DefaultOperatingHours() []OperatingHours {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	hours := make([]OperatingHours, 0, len(days))
	for _, day := range days {
		hours = append(hours, OperatingHours{
			Day:       day,
			Open:      true,
			OpenTime:  "09:00",
			CloseTime: "17:00",
		})
	}
	return hours
}
