package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the ad tracker application

// ErrUserAlreadyExists is returned when registering a username that is already taken
var ErrUserAlreadyExists = errors.New("user name is already existing")

// ErrUserNotFound is returned when no credential row exists for a username
var ErrUserNotFound = errors.New("user is not existing")

// ErrWrongPassword is returned when the password does not match the stored hash
var ErrWrongPassword = errors.New("password is wrong")

// ErrInvalidCredentials wraps ErrUserNotFound and ErrWrongPassword at the login boundary
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotLoggedIn is returned by protected operations when no session identity is present
var ErrNotLoggedIn = errors.New("not logged in")

// ErrSessionNotFound is returned by session stores for unknown or expired tokens
var ErrSessionNotFound = errors.New("session not found")

// ErrAdvertisementNotFound is returned when an advertisement name has no ledger row
var ErrAdvertisementNotFound = errors.New("advertisement not found")

// ErrBudgetExhausted is returned when an advertisement cannot pay for another click.
// It is an expected outcome of the click workflow, not a failure.
var ErrBudgetExhausted = errors.New("advertisement budget exhausted")

// ErrNotReady is returned while the readiness artifact is missing
var ErrNotReady = errors.New("readiness artifact missing")

// ErrInvalidImageFormat is returned when a published file is not a jpg or png image
var ErrInvalidImageFormat = errors.New("invalid image format")

// ErrImageTooLarge is returned when a published file exceeds the upload limit
var ErrImageTooLarge = errors.New("image too large")

// PersistenceError is returned when a storage operation fails
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err into a *PersistenceError, keeping domain sentinels untouched.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) || isDomain(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err carries a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

func isDomain(err error) bool {
	for _, target := range []error{
		ErrUserAlreadyExists, ErrUserNotFound, ErrWrongPassword, ErrInvalidCredentials,
		ErrNotLoggedIn, ErrSessionNotFound, ErrAdvertisementNotFound, ErrBudgetExhausted,
		ErrNotReady, ErrInvalidImageFormat, ErrImageTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
