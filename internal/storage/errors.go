package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrStoreClosed is returned when operations are attempted on a closed store
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidContract is returned when a record is missing its id
	ErrInvalidContract = errors.New("invalid contract record")
)
