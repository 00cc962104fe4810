package service

import (
	"context"

	propertieserrors "rentals/internal/properties/errors"
	"rentals/internal/properties/repository"
	"rentals/internal/properties/validator"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/events"
	"rentals/pkg/model"
	"rentals/pkg/sanitizer"
	"rentals/pkg/validation"

	"github.com/cockroachdb/errors"
)

type PropertyService interface {
	Create(ctx context.Context, actor model.Actor, req *model.PropertyRequest) (*model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetAll(ctx context.Context) ([]*model.Property, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	validator *validator.PropertyValidator,
	publisher events.Publisher,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, actor model.Actor, req *model.PropertyRequest) (*model.Property, error) {
	if !actor.Role.IsOwner() {
		return nil, apperrors.RoleViolation("Only property owners can list properties")
	}

	s.sanitize(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, s.validationError(err)
	}

	property := &model.Property{
		OwnerID:            actor.UserID,
		Title:              req.Title,
		Description:        req.Description,
		Location:           req.Location,
		Price:              req.Price,
		Type:               req.Type,
		Size:               req.Size,
		AvailabilityStatus: req.AvailabilityStatus,
		Amenities:          req.Amenities,
	}
	if property.AvailabilityStatus == "" {
		property.AvailabilityStatus = model.AvailabilityAvailable
	}
	if err := s.validator.Validate(property); err != nil {
		return nil, s.validationError(err)
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "owner_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created successfully",
		"id", property.ID,
		"owner_id", property.OwnerID,
	)
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log,
		events.New(events.PropertyCreated, property.ID, actor.UserID, property))
	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve property")
	}
	return property, nil
}

func (s *propertyService) GetAll(ctx context.Context) ([]*model.Property, error) {
	properties, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties", "error", err)
		return nil, apperrors.Internal("Failed to retrieve properties", err)
	}
	return properties, nil
}

func (s *propertyService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !actor.Role.IsOwner() {
		return apperrors.RoleViolation("Only property owners can delete properties")
	}
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to check property existence")
	}
	if property.OwnerID != actor.UserID {
		s.cfg.Log.Warn("Property delete rejected", "id", id, "owner_id", property.OwnerID, "actor_id", actor.UserID)
		return apperrors.OwnershipViolation("You can only delete your own properties")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "Failed to delete property")
	}

	s.cfg.Log.Info("Property deleted successfully", "id", id, "owner_id", actor.UserID)
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log,
		events.New(events.PropertyDeleted, id, actor.UserID, map[string]string{"id": id}))
	return nil
}

// --- Helpers ---

func (s *propertyService) sanitize(req *model.PropertyRequest) {
	req.Title = sanitizer.NormalizeTitle(req.Title)
	req.Description = sanitizer.TrimAndNormalize(req.Description)
	req.Location = sanitizer.NormalizeLocation(req.Location)
	req.Type = sanitizer.NormalizeKeyword(req.Type)
	req.AvailabilityStatus = sanitizer.NormalizeKeyword(req.AvailabilityStatus)
	req.Amenities = sanitizer.NormalizeAmenities(req.Amenities)
}

func (s *propertyService) validationError(err error) error {
	var validationErrs validation.ValidationErrors
	if errors.As(err, &validationErrs) {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return apperrors.Validation("Property validation failed", validationErrs.Details())
	}
	return apperrors.Internal("Failed to validate property", err)
}

func (s *propertyService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, propertieserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Property", id)
	}
	if errors.Is(err, propertieserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid property ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
