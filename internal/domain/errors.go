package domain

import "errors"

// Common errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("access forbidden: you don't own this resource")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("action conflicts with current boost status")
	ErrUpstream   = errors.New("upstream provider error")
)
