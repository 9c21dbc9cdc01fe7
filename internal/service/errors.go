package service

import "errors"

var (
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidSubmission is returned when a submission or conflict query
	// lacks a usable start date or carries a time that is not HH:MM.
	ErrInvalidSubmission = errors.New("invalid submission")
)
