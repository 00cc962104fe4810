package service

import (
	"context"

	propertieserrors "rentals/internal/properties/errors"
	reviewserrors "rentals/internal/reviews/errors"
	"rentals/internal/reviews/rating"
	"rentals/internal/reviews/repository"
	"rentals/internal/reviews/validator"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/events"
	"rentals/pkg/model"
	"rentals/pkg/validation"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewService interface {
	Create(ctx context.Context, actor model.Actor, req *model.ReviewRequest) (*model.Review, error)
	GetMine(ctx context.Context, actor model.Actor) ([]*model.Review, error)
	GetByProperty(ctx context.Context, propertyID string) ([]*model.Review, error)
}

// PropertyStore is the slice of the property store reviews depend on.
type PropertyStore interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
	UpdateAverageRating(ctx context.Context, id string, average float64) error
}

// invalidator is implemented by property stores that cache reads.
type invalidator interface {
	Invalidate(id string)
}

type reviewService struct {
	repo       repository.ReviewRepository
	properties PropertyStore
	validator  *validator.ReviewValidator
	publisher  events.Publisher
	cfg        *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	properties PropertyStore,
	validator *validator.ReviewValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:       repo,
		properties: properties,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Create stores the review and recomputes the property's average rating in the
// same transaction.
func (s *reviewService) Create(ctx context.Context, actor model.Actor, req *model.ReviewRequest) (*model.Review, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		var validationErrs validation.ValidationErrors
		if errors.As(err, &validationErrs) {
			s.cfg.Log.Warn("Review validation failed", "error", err)
			return nil, apperrors.Validation("Review validation failed", validationErrs.Details())
		}
		return nil, apperrors.Internal("Failed to validate review", err)
	}

	var (
		review  *model.Review
		average float64
	)
	// The driver re-runs this callback on transient errors, so each attempt
	// starts from a fresh record.
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		review = &model.Review{
			PropertyID: req.PropertyID,
			UserID:     actor.UserID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}

		_, err := s.repo.FindByUserAndProperty(sessCtx, actor.UserID, req.PropertyID)
		switch {
		case err == nil:
			return apperrors.DuplicateReview("You cannot review a property twice")
		case !errors.Is(err, reviewserrors.ErrNotFound):
			return apperrors.Internal("Failed to check existing reviews", err)
		}

		if !actor.Role.IsTenant() {
			return apperrors.RoleViolation("Only tenants can post a review")
		}

		if _, err := s.properties.FindByID(sessCtx, req.PropertyID); err != nil {
			if errors.Is(err, propertieserrors.ErrNotFound) || errors.Is(err, propertieserrors.ErrInvalidID) {
				return apperrors.NotFoundWithID("Property", req.PropertyID)
			}
			return apperrors.Internal("Failed to retrieve property", err)
		}

		if err := s.repo.Create(sessCtx, review); err != nil {
			if errors.Is(err, reviewserrors.ErrDuplicate) {
				return apperrors.DuplicateReview("You cannot review a property twice")
			}
			return apperrors.Internal("Failed to create review", err)
		}

		reviews, err := s.repo.FindByProperty(sessCtx, req.PropertyID)
		if err != nil {
			return apperrors.Internal("Failed to load property reviews", err)
		}
		avg, ok := rating.Average(reviews)
		if !ok {
			return apperrors.Internal("Review missing after insert", nil)
		}
		average = avg

		if err := s.properties.UpdateAverageRating(sessCtx, req.PropertyID, average); err != nil {
			return apperrors.Internal("Failed to update average rating", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.FromContext(ctx).Warn("Review rejected",
			"property_id", req.PropertyID,
			"user_id", actor.UserID,
			"error", err,
		)
		return nil, err
	}

	// Drop any cached copy read between the in-transaction write and the commit.
	if c, ok := s.properties.(invalidator); ok {
		c.Invalidate(req.PropertyID)
	}

	s.cfg.Log.FromContext(ctx).Info("Review created successfully",
		"id", review.ID,
		"property_id", review.PropertyID,
		"user_id", review.UserID,
		"average_rating", average,
	)
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log,
		events.New(events.ReviewCreated, review.ID, actor.UserID, map[string]any{
			"review":         review,
			"average_rating": average,
		}))
	return review, nil
}

func (s *reviewService) GetMine(ctx context.Context, actor model.Actor) ([]*model.Review, error) {
	reviews, err := s.repo.FindByUser(ctx, actor.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews", "user_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) GetByProperty(ctx context.Context, propertyID string) ([]*model.Review, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	reviews, err := s.repo.FindByProperty(ctx, propertyID)
	if err != nil {
		s.cfg.Log.Error("Failed to list property reviews", "property_id", propertyID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reviews", err)
	}
	return reviews, nil
}
