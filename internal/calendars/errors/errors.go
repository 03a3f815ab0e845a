package errors

import "errors"

var (
	ErrNotFound = errors.New("calendar not found")

	ErrExceptionNotFound = errors.New("calendar exception not found")

	ErrInvalidDate = errors.New("invalid exception date format")
)
