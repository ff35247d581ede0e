package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrCapacityExceeded = errors.New("teori session capacity exceeded")

	ErrSessionNotFound = errors.New("teori session not found or inactive")

	ErrPaymentAlreadySettled = errors.New("booking payment is already settled")
)
