package validator

import (
	"fmt"
	"time"

	bookingserrors "rentals/internal/bookings/errors"
	"rentals/pkg/logger"
	"rentals/pkg/model"
	"rentals/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Violation is the first booking rule a candidate failed. Conflict is set when
// the rule was a date overlap.
type Violation struct {
	Err      error
	Conflict *model.Booking
}

func (v *Violation) Error() string {
	if v.Conflict != nil {
		return fmt.Sprintf("%v (%s - %s)", v.Err,
			v.Conflict.StartDate.Format(time.RFC3339),
			v.Conflict.EndDate.Format(time.RFC3339),
		)
	}
	return v.Err.Error()
}

func (v *Violation) Unwrap() error {
	return v.Err
}

type BookingValidator struct {
	validate        *validator.Validate
	logger          *logger.Logger
	ignoreCancelled bool
}

// NewBookingValidator builds the rule set. With ignoreCancelled, cancelled
// bookings neither count as the tenant's booking nor block dates.
func NewBookingValidator(log *logger.Logger, ignoreCancelled bool) *BookingValidator {
	log.Info("Booking validator initialized successfully", "ignore_cancelled", ignoreCancelled)

	return &BookingValidator{
		validate:        validation.New(log),
		logger:          log,
		ignoreCancelled: ignoreCancelled,
	}
}

func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *BookingValidator) ValidateStatus(update *model.BookingStatusUpdate) error {
	return validation.Struct(v.validate, update)
}

// CheckRole is the first rule on its own, for callers that want to reject
// before loading anything.
func (v *BookingValidator) CheckRole(role model.Role) error {
	if !role.IsTenant() {
		return &Violation{Err: bookingserrors.ErrRoleViolation}
	}
	return nil
}

// Evaluate applies the booking rules to candidate in order and returns the
// first *Violation, or nil when the booking may be created. existing must hold
// every booking of the candidate's property.
func (v *BookingValidator) Evaluate(candidate *model.Booking, role model.Role, existing []*model.Booking) error {
	if err := v.CheckRole(role); err != nil {
		return err
	}

	for _, b := range existing {
		if v.skip(b) {
			continue
		}
		if b.UserID == candidate.UserID {
			return &Violation{Err: bookingserrors.ErrDuplicateBooking}
		}
	}

	if !candidate.StartDate.Before(candidate.EndDate) {
		return &Violation{Err: bookingserrors.ErrInvalidRange}
	}

	for _, b := range existing {
		if v.skip(b) {
			continue
		}
		if overlaps(b.StartDate, b.EndDate, candidate.StartDate, candidate.EndDate) {
			return &Violation{Err: bookingserrors.ErrDateConflict, Conflict: b}
		}
	}

	return nil
}

func (v *BookingValidator) skip(b *model.Booking) bool {
	return v.ignoreCancelled && b.Status == model.BookingCancelled
}

// overlaps treats ranges as half-open, so a stay may start on another's end date.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}
