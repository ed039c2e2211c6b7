package auth

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrInvalidRole        = errors.New("role must be patient, doctor or pharmacy")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidPhone       = errors.New("invalid phone number format")
)
