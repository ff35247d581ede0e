package errors

import "errors"

var (
	ErrNotFound = errors.New("catalog entry not found")

	ErrInvalidID = errors.New("invalid catalog ID format")

	ErrInactive = errors.New("catalog entry is not bookable")

	ErrSessionClosed = errors.New("session is not open for booking")
)
