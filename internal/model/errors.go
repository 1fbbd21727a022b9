package model

import "errors"

// ErrValidation is wrapped by every input validation failure so callers
// can tell bad input apart from missing records or storage failures.
var ErrValidation = errors.New("validation failed")

// ErrOrderAlreadyClosed is returned when a checked out order is mutated.
var ErrOrderAlreadyClosed = errors.New("this order is already closed")
