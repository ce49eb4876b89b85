// Package models defines the domain records and the error taxonomy shared
// by the repositories and the flow engine.
package models

import "errors"

// Error taxonomy of the shift flow. Every rejected transition maps to
// exactly one of these, and every one of them produces a user-visible
// reply; nothing is swallowed.
var (
	// ErrAuthorizationDenied: unknown or insufficiently privileged role.
	// Always clears the session, never retried.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrValidationFailed: bad user input or an unresolvable reference
	// (non-numeric worker count, unknown field id).
	ErrValidationFailed = errors.New("validation failed")

	// ErrGeofenceRejected: location outside the field radius. The session
	// stays where it is; the user may retry indefinitely.
	ErrGeofenceRejected = errors.New("geofence rejected")

	// ErrStoreUnavailable: the spreadsheet could not be read or written.
	// Fatal to the current step, session cleared, no automatic retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidSequence: an action incompatible with the current
	// conversation state. Session cleared, user told to restart.
	ErrInvalidSequence = errors.New("invalid sequence")
)
