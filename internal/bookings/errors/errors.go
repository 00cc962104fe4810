package errors

import "github.com/cockroachdb/errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// Booking rule outcomes, in evaluation order.
	ErrRoleViolation    = errors.New("only tenants can book a property")
	ErrDuplicateBooking = errors.New("tenant already holds a booking for this property")
	ErrInvalidRange     = errors.New("start date must be before end date")
	ErrDateConflict     = errors.New("booking dates overlap an existing booking")

	ErrLockHeld = errors.New("property is being booked by another request")
	ErrLockLost = errors.New("booking lock expired and was taken over by another request")
)
