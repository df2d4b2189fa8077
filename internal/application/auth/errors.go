package auth

import "errors"

var (
	ErrEmptySecret  = errors.New("JWT secret is required")
	ErrWeakSecret   = errors.New("JWT secret must be at least 32 characters")
	ErrInvalidTTL   = errors.New("JWT lifetime must be positive")
	ErrInvalidToken = errors.New("Invalid token")
	ErrExpiredToken = errors.New("Token expired")
)
