package service

import (
	"context"
	"time"

	userserrors "rentals/internal/users/errors"
	"rentals/internal/users/repository"
	"rentals/internal/users/validator"
	"rentals/pkg/auth"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"
	"rentals/pkg/sanitizer"
	"rentals/pkg/validation"

	"github.com/cockroachdb/errors"
)

const wrongCredentials = "Wrong credentials"

type UserService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Actor, update *model.ProfileUpdate) (*model.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    TokenIssuer
	hasher    PasswordHasher
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokens TokenIssuer,
	hasher PasswordHasher,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		tokens:    tokens,
		hasher:    hasher,
		cfg:       cfg,
	}
}

func (s *userService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.NormalizePhoneOrKeep(req.Phone)

	if err := s.validator.ValidateSignup(req); err != nil {
		return nil, s.validationError("Signup validation failed", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("User with this email already exists")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User signed up successfully", "id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, s.validationError("Login validation failed", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(wrongCredentials)
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) || errors.Is(err, auth.ErrInvalidPassword) {
			s.cfg.Log.Warn("Login rejected", "user_id", user.ID)
			return nil, apperrors.Unauthorized(wrongCredentials)
		}
		return nil, apperrors.Internal("Failed to verify password", err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor model.Actor, update *model.ProfileUpdate) (*model.User, error) {
	s.sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, s.validationError("Profile validation failed", err)
	}

	user, err := s.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		user.Role = *update.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, userserrors.ErrDuplicateEmail):
			return nil, apperrors.Conflict("User with this email already exists")
		case errors.Is(err, userserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("User", actor.UserID)
		}
		s.cfg.Log.Error("Failed to update user", "id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to update profile", err)
	}

	s.cfg.Log.Info("Profile updated successfully", "id", user.ID, "role", user.Role)
	return user, nil
}

// --- Helpers ---

func (s *userService) sanitizeUpdate(u *model.ProfileUpdate) {
	if u.Name != nil {
		name := sanitizer.NormalizeName(*u.Name)
		u.Name = &name
	}
	if u.Email != nil {
		email := sanitizer.NormalizeEmail(*u.Email)
		u.Email = &email
	}
	if u.Phone != nil {
		phone := sanitizer.NormalizePhoneOrKeep(*u.Phone)
		u.Phone = &phone
	}
}

func (s *userService) validationError(message string, err error) error {
	var validationErrs validation.ValidationErrors
	if errors.As(err, &validationErrs) {
		s.cfg.Log.Warn(message, "error", err)
		return apperrors.Validation(message, validationErrs.Details())
	}
	return apperrors.Internal(message, err)
}
