package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrFlightNotFound    = wrapNotFound("flight not found")
	ErrInventoryNotFound = wrapNotFound("no inventory found for this flight, date and cabin class")
	ErrBookingNotFound   = wrapNotFound("booking not found")
	ErrPassengerNotFound = wrapNotFound("passenger not found")
	ErrBaggageNotFound   = wrapNotFound("baggage allowance not found for this airline and cabin class")
)

var (
	ErrSeatUnavailable  = errors.New("no seats available for this flight")
	ErrUnauthorized     = errors.New("unauthorized: booking does not belong to this passenger")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

var (
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return ErrNotFound }

func wrapNotFound(msg string) error {
	return &notFoundError{msg: msg}
}
