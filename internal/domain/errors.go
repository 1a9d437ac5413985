package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrEventFull                 = errors.New("event is full")
	ErrAlreadyJoined             = errors.New("already joined this event")
	ErrNotParticipating          = errors.New("not participating in this event")
	ErrCapacityBelowParticipants = errors.New("max_participants is below the current participant count")
)
