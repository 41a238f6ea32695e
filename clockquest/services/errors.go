package services

import "errors"

// Sentinel errors the HTTP layer maps to status codes.
var (
	ErrWorldNotFound  = errors.New("world not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoTrial        = errors.New("no trial for this tier")
	ErrInvalidInput   = errors.New("invalid input")
)
