package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID string    `json:"property_id" bson:"property_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Rating     int       `json:"rating" bson:"rating"`
	Comment    string    `json:"comment" bson:"comment"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type ReviewRequest struct {
	PropertyID string `json:"property_id" validate:"required,mongodb"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}
