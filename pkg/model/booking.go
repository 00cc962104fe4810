package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"

	// BookingApproved is accepted on input as another name for confirmed.
	BookingApproved BookingStatus = "approved"
)

// NormalizeBookingStatus lowercases s and folds the approved alias into confirmed.
func NormalizeBookingStatus(s string) BookingStatus {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if status == BookingApproved {
		return BookingConfirmed
	}
	return status
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID string        `json:"property_id" bson:"property_id"`
	UserID     string        `json:"user_id" bson:"user_id"`
	StartDate  time.Time     `json:"start_date" bson:"start_date"`
	EndDate    time.Time     `json:"end_date" bson:"end_date"`
	TotalPrice float64       `json:"total_price" bson:"total_price"`
	Status     BookingStatus `json:"status" bson:"status"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the tenant-supplied shape of a new booking. Dates are accepted
// as RFC 3339 timestamps or plain YYYY-MM-DD dates.
type BookingRequest struct {
	PropertyID string  `json:"property_id" validate:"required,mongodb"`
	StartDate  string  `json:"start_date" validate:"required,booking_date"`
	EndDate    string  `json:"end_date" validate:"required,booking_date"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,booking_status"`
}

const DateLayout = "2006-01-02"

// ParseBookingDate parses s as RFC 3339 or YYYY-MM-DD, returning the instant in UTC.
func ParseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
