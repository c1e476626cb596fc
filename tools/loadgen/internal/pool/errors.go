package pool

import "errors"

var (
	// ErrPoolClosed is returned when an operation is attempted on a closed pool.
	ErrPoolClosed = errors.New("value pool is closed")

	// ErrValueNotFound is returned when no live value of the requested type exists.
	ErrValueNotFound = errors.New("value not found in pool")
)
