package service

import (
	"errors"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrSubmissionFailed    = errors.New("An unexpected server error occurred. Please try again later.")

	// ErrStatusNotFound covers both an unknown ID and a date of birth that
	// does not match, so callers cannot tell which IDs exist.
	ErrStatusNotFound = errors.New("Application ID not found or Date of Birth does not match.")
	ErrMalformedDOB   = errors.New("Invalid Date of Birth format provided.")

	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmptySelection   = errors.New("no employees selected")
	ErrInvalidFileSlot  = errors.New("invalid file slot")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidFilePath  = errors.New("invalid file path")

	ErrInvalidLogin       = errors.New("Invalid email or password.")
	ErrInvalidEmailFormat = errors.New("Invalid email format.")
	ErrLoginFailed        = errors.New("Failed to login. Please check your credentials.")
	ErrNotAdmin           = errors.New("account has no admin access")
	ErrDuplicateAdmin     = errors.New("an admin user with this email already exists")
)

// Actor identifies the admin performing a mutation, for the audit log.
type Actor struct {
	UserID string
	Email  string
}
