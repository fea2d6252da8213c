package services

import "errors"

// Sentinel errors for every business-rule failure the services can report.
// Controllers match these with errors.Is and translate them onto the HTTP
// error taxonomy; anything unmatched surfaces as an internal error.
var (
	// validation (400)
	ErrMissingFields    = errors.New("missing required field")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidStatus    = errors.New("invalid booking status")
	ErrCannotCancel     = errors.New("cannot cancel booking with current status")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmailTaken       = errors.New("email already registered")
	ErrWeakPassword     = errors.New("password too short")

	// not found (404)
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSpaNotFound     = errors.New("spa service not found")

	// conflict (409)
	ErrRoomConflict    = errors.New("room unavailable for requested dates")
	ErrSpaUnavailable  = errors.New("spa service not available")
	ErrRoomHasBookings = errors.New("room has existing bookings")
	ErrUserHasBookings = errors.New("user has existing bookings")

	// authentication / authorization (401 / 403)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotOwner           = errors.New("booking belongs to another user")

	// internal (500)
	ErrOwnerResolution = errors.New("could not resolve booking owner")
)
