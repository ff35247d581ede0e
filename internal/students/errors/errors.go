package errors

import "errors"

var (
	ErrNotFound = errors.New("student not found")

	ErrInvalidID = errors.New("invalid student ID format")

	ErrDuplicatePersonalNumber = errors.New("a student with this personal number already exists")
)
