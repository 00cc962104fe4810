package errors

import "github.com/cockroachdb/errors"

var (
	ErrNotFound = errors.New("property not found")

	ErrInvalidID = errors.New("invalid property ID format")
)
