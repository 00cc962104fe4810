package model

import "time"

// BookingLock is an advisory lock held while a booking for one property is evaluated
// and written. Its _id is unique, so a second holder fails with a duplicate key.
// Owner identifies the holder, so releasing never removes a lock that has since
// been taken over by another request.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func PropertyLockID(propertyID string) string {
	return "booking_lock_" + propertyID
}
