package domain

import "errors"

var (
	// ErrNotInitialized venue has no slot aggregate yet
	ErrNotInitialized = errors.New("venue slots not initialized")
	// ErrAlreadyInitialized venue already has a slot aggregate
	ErrAlreadyInitialized = errors.New("venue slots already initialized")
	// ErrAlreadyBooked slot already has a booking
	ErrAlreadyBooked = errors.New("slot is already booked")
	// ErrHeldByOther slot is held by another user and the hold has not expired
	ErrHeldByOther = errors.New("slot is held by another user")
	// ErrConflict concurrent writers kept winning until retries ran out
	ErrConflict = errors.New("concurrent update conflict")
	// ErrInvalidConfig venue slot configuration violates its invariants
	ErrInvalidConfig = errors.New("invalid venue slot config")
)
