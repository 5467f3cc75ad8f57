package service

import "errors"

var (
	ErrUnauthenticated        = errors.New("could not validate credentials")
	ErrInvalidCredentials     = errors.New("incorrect username or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrForbidden              = errors.New("operation not permitted")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrContactExists          = errors.New("contact with this email already exists")
	ErrContactNotFound        = errors.New("contact not found")
	ErrVerificationFailed     = errors.New("verification error")
	ErrRoleNotSeeded          = errors.New("default role is not seeded")
	ErrWeakPassword           = errors.New("password does not meet policy requirements")
	ErrFileTooLarge           = errors.New("file size exceeds the maximum allowed")
	ErrInvalidDays            = errors.New("days must be between 0 and 366")
	ErrUnknownRole            = errors.New("unknown role")
	ErrUserNotFound           = errors.New("user not found")
)
