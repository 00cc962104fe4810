package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email,max=100"`
	PasswordHash string    `json:"-" bson:"password_hash" validate:"required"`
	Phone        string    `json:"phone" bson:"phone" validate:"required,min=10,max=20"`
	Role         Role      `json:"role" bson:"role" validate:"required,oneof=owner tenant"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Phone    string `json:"phone" validate:"required,min=10,max=20"`
	Role     Role   `json:"role" validate:"required,oneof=owner tenant"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// ProfileUpdate is a partial update; nil fields keep their stored value.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Role  *Role   `json:"role,omitempty" validate:"omitempty,oneof=owner tenant"`
}

// Actor is the authenticated requester, resolved from the token and the user record.
type Actor struct {
	UserID string
	Role   Role
}
