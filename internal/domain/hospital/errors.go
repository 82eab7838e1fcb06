package hospital

import "errors"

// Sentinel errors returned by the record store. Returned errors wrap one of
// these with context, so match them with errors.Is.
var (
	// ErrNotFound is returned when a referenced id is absent from its collection.
	ErrNotFound = errors.New("not found")

	// ErrReferential is returned when an operation would leave a dangling
	// or invalid cross-entity reference.
	ErrReferential = errors.New("referential violation")

	// ErrInvalidFormat is returned for invalid dates and for persisted lines
	// with fewer fields than required.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnavailable is returned when a doctor is not available on a date.
	ErrUnavailable = errors.New("doctor unavailable")

	// ErrTerminalStatus is returned when an appointment is already Completed
	// or Cancelled.
	ErrTerminalStatus = errors.New("appointment status is terminal")
)
