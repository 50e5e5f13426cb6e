package errors

import (
	"errors"
	"fmt"
)

// Common error types for the member portal
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Backend errors
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBackendRejected    = errors.New("backend rejected request")

	// Checkout errors
	ErrNoPlanSelected      = errors.New("no membership plan selected")
	ErrInvalidPlan         = errors.New("invalid membership plan")
	ErrSubmissionInFlight  = errors.New("submission already in flight")
	ErrSubmissionNotReady  = errors.New("checkout not at payment step")
	ErrInvalidPaymentData  = errors.New("invalid payment data")
	ErrInvalidPersonalData = errors.New("invalid personal data")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
