package services

import "errors"

// Normalization service errors
var (
	ErrNoColumns      = errors.New("no columns to normalize")
	ErrColumnNotFound = errors.New("column not found")
	ErrLengthMismatch = errors.New("column lengths differ")
)
