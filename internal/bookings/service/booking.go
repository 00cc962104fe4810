package service

import (
	"context"
	"time"

	bookingserrors "rentals/internal/bookings/errors"
	"rentals/internal/bookings/repository"
	"rentals/internal/bookings/validator"
	propertieserrors "rentals/internal/properties/errors"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/events"
	"rentals/pkg/model"
	"rentals/pkg/validation"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	GetMine(ctx context.Context, actor model.Actor) ([]*model.Booking, error)
	GetByProperty(ctx context.Context, actor model.Actor, propertyID string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, actor model.Actor, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

// PropertyFinder is the slice of the property store bookings depend on.
type PropertyFinder interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	properties PropertyFinder
	validator  *validator.BookingValidator
	publisher  events.Publisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	properties PropertyFinder,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		properties: properties,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, s.validationError(err)
	}
	if err := s.validator.CheckRole(actor.Role); err != nil {
		return nil, s.ruleError(err)
	}

	booking, err := s.candidate(actor, req)
	if err != nil {
		return nil, err
	}

	lock, err := s.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	defer s.releasePropertyLock(ctx, lock)

	// The callback may run more than once; only a committed attempt's copy is kept.
	var stored *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByProperty(sessCtx, booking.PropertyID)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if err := s.validator.Evaluate(booking, actor.Role, existing); err != nil {
			return s.ruleError(err)
		}
		if _, err := s.properties.FindByID(sessCtx, booking.PropertyID); err != nil {
			return s.propertyError(err, booking.PropertyID)
		}
		attempt := *booking
		if err := s.repo.Create(sessCtx, &attempt); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		stored = &attempt
		return nil
	})
	if err != nil {
		s.cfg.Log.FromContext(ctx).Warn("Booking rejected",
			"property_id", booking.PropertyID,
			"user_id", actor.UserID,
			"error", err,
		)
		return nil, err
	}
	booking = stored

	s.cfg.Log.FromContext(ctx).Info("Booking created successfully",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"user_id", booking.UserID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
	)
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log,
		events.New(events.BookingCreated, booking.ID, actor.UserID, booking))
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role.IsOwner() {
		if err := s.requirePropertyOwner(ctx, actor, booking.PropertyID); err != nil {
			return nil, err
		}
		return booking, nil
	}

	if booking.UserID != actor.UserID {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return booking, nil
}

func (s *bookingService) GetMine(ctx context.Context, actor model.Actor) ([]*model.Booking, error) {
	if !actor.Role.IsTenant() {
		return nil, apperrors.RoleViolation("Only tenants can see their bookings")
	}

	bookings, err := s.repo.FindByUser(ctx, actor.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByProperty(ctx context.Context, actor model.Actor, propertyID string) ([]*model.Booking, error) {
	if !actor.Role.IsOwner() {
		return nil, apperrors.RoleViolation("Only property owners can see bookings for their property")
	}
	if err := s.requirePropertyOwner(ctx, actor, propertyID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByProperty(ctx, propertyID)
	if err != nil {
		s.cfg.Log.Error("Failed to list property bookings", "property_id", propertyID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor model.Actor, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if !actor.Role.IsOwner() {
		return nil, apperrors.RoleViolation("Only property owners can update the status of a booking")
	}
	if err := s.validator.ValidateStatus(update); err != nil {
		return nil, s.validationError(err)
	}
	status := model.NormalizeBookingStatus(update.Status)

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requirePropertyOwner(ctx, actor, booking.PropertyID); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.bookingError(err, id, "Failed to update booking status")
	}

	s.cfg.Log.FromContext(ctx).Info("Booking status updated",
		"id", id,
		"from", booking.Status,
		"to", updated.Status,
		"owner_id", actor.UserID,
	)
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log,
		events.New(events.BookingStatusChanged, id, actor.UserID, map[string]any{
			"id":          id,
			"property_id": updated.PropertyID,
			"from":        booking.Status,
			"to":          updated.Status,
		}))
	return updated, nil
}

func (s *bookingService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !actor.Role.IsTenant() {
		return apperrors.RoleViolation("Only tenants can cancel their bookings")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking.UserID != actor.UserID {
		return apperrors.NotFoundWithID("Booking", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.bookingError(err, id, "Failed to delete booking")
	}

	s.cfg.Log.FromContext(ctx).Info("Booking deleted successfully", "id", id, "user_id", actor.UserID)
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log,
		events.New(events.BookingDeleted, id, actor.UserID, map[string]string{
			"id":          id,
			"property_id": booking.PropertyID,
		}))
	return nil
}

// --- Helpers ---

func (s *bookingService) candidate(actor model.Actor, req *model.BookingRequest) (*model.Booking, error) {
	start, err := model.ParseBookingDate(req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"start_date": "invalid date"})
	}
	end, err := model.ParseBookingDate(req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"end_date": "invalid date"})
	}

	return &model.Booking{
		PropertyID: req.PropertyID,
		UserID:     actor.UserID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: req.TotalPrice,
		Status:     model.BookingPending,
	}, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.bookingError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) requirePropertyOwner(ctx context.Context, actor model.Actor, propertyID string) error {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return s.propertyError(err, propertyID)
	}
	if property.OwnerID != actor.UserID {
		return apperrors.OwnershipViolation("You do not own this property")
	}
	return nil
}

func (s *bookingService) validationError(err error) error {
	var validationErrs validation.ValidationErrors
	if errors.As(err, &validationErrs) {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", validationErrs.Details())
	}
	return apperrors.Internal("Failed to validate booking", err)
}

func (s *bookingService) ruleError(err error) error {
	var violation *validator.Violation
	if !errors.As(err, &violation) {
		return apperrors.Internal("Failed to evaluate booking", err)
	}

	switch {
	case errors.Is(violation.Err, bookingserrors.ErrRoleViolation):
		return apperrors.RoleViolation("Only tenants can book a property")
	case errors.Is(violation.Err, bookingserrors.ErrDuplicateBooking):
		return apperrors.DuplicateBooking("You have already booked this property, to book again cancel the earlier booking")
	case errors.Is(violation.Err, bookingserrors.ErrInvalidRange):
		return apperrors.InvalidRange("Start date must be before end date")
	case errors.Is(violation.Err, bookingserrors.ErrDateConflict):
		details := map[string]any{}
		if violation.Conflict != nil {
			details["start_date"] = violation.Conflict.StartDate.Format(time.RFC3339)
			details["end_date"] = violation.Conflict.EndDate.Format(time.RFC3339)
		}
		return apperrors.DateConflict("This property is already booked for the selected dates", details)
	}
	return apperrors.Internal("Failed to evaluate booking", err)
}

func (s *bookingService) bookingError(err error, id, message string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func (s *bookingService) propertyError(err error, propertyID string) error {
	if errors.Is(err, propertieserrors.ErrNotFound) || errors.Is(err, propertieserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Property", propertyID)
	}
	return apperrors.Internal("Failed to retrieve property", err)
}

// acquirePropertyLock serializes booking creation per property. A concurrent
// request for the same property fails fast with a conflict.
func (s *bookingService) acquirePropertyLock(ctx context.Context, propertyID string) (*model.BookingLock, error) {
	lock := &model.BookingLock{
		ID:        model.PropertyLockID(propertyID),
		Owner:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(s.cfg.BookingLockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("This property is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lock, nil
}

// The lock is released even when the request context has been cancelled.
func (s *bookingService) releasePropertyLock(ctx context.Context, lock *model.BookingLock) {
	err := s.lockRepo.Release(context.WithoutCancel(ctx), lock)
	switch {
	case err == nil:
	case errors.Is(err, bookingserrors.ErrLockLost):
		s.cfg.Log.Warn("Booking lock outlived its TTL", "lock_id", lock.ID, "ttl", s.cfg.BookingLockTTL)
	default:
		s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lock.ID, "error", err)
	}
}
