package model

import "time"

type Property struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID            string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Title              string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description        string    `json:"description" bson:"description" validate:"required,max=5000"`
	Location           string    `json:"location" bson:"location" validate:"required,min=2,max=200"`
	Price              float64   `json:"price" bson:"price" validate:"gte=0"`
	Type               string    `json:"type" bson:"type" validate:"required,max=50"`
	Size               float64   `json:"size" bson:"size" validate:"gte=0"`
	AvailabilityStatus string    `json:"availability_status" bson:"availability_status" validate:"required,oneof=available unavailable"`
	Amenities          []string  `json:"amenities" bson:"amenities" validate:"max=50,dive,min=1,max=100"`
	AverageRating      *float64  `json:"average_rating,omitempty" bson:"average_rating,omitempty"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

const (
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
)

type PropertyRequest struct {
	Title              string   `json:"title" validate:"required,min=2,max=200"`
	Description        string   `json:"description" validate:"required,max=5000"`
	Location           string   `json:"location" validate:"required,min=2,max=200"`
	Price              float64  `json:"price" validate:"gte=0"`
	Type               string   `json:"type" validate:"required,max=50"`
	Size               float64  `json:"size" validate:"gte=0"`
	AvailabilityStatus string   `json:"availability_status" validate:"omitempty,oneof=available unavailable"`
	Amenities          []string `json:"amenities" validate:"max=50,dive,max=100"`
}
