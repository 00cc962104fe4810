package errors

import "github.com/cockroachdb/errors"

var (
	ErrNotFound = errors.New("review not found")

	ErrInvalidID = errors.New("invalid review ID format")

	// ErrDuplicate is returned when the (user, property) unique index rejects an insert.
	ErrDuplicate = errors.New("review already exists for this user and property")
)
