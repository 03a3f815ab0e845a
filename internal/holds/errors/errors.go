package errors

import "errors"

var (
	ErrLockNotFound = errors.New("slot lock not found")

	// ErrDuplicateLock surfaces the unique _id index rejecting a second
	// claim on the same slot.
	ErrDuplicateLock = errors.New("slot lock already exists")
)
