package core

import "errors"

// Domain failure kinds. Every check fails fast at the service boundary
// with one of these; the API layer maps them onto the message catalog.
var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrNoActiveCheckIn   = errors.New("no active check-in")

	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrManagerSignup      = errors.New("manager registration not allowed")
)
