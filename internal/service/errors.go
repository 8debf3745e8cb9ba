package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPlateTaken         = errors.New("license plate already registered")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrVisitorCheckedIn  = errors.New("visitor is currently checked in")
	ErrVehicleInactive   = errors.New("vehicle is inactive")

	ErrInvalidLink      = errors.New("invalid approval link")
	ErrNoPendingVisitor = errors.New("no pending visitor for this host")

	ErrMFARequired      = errors.New("mfa required")
	ErrInvalidMFACode   = errors.New("invalid mfa code")
	ErrMFANotConfigured = errors.New("mfa not configured")
)

// WeakPasswordError carries every violated rule so the caller can show a
// complete checklist rather than fixing one rule per round trip.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Violations, "; ")
}
