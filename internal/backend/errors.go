package backend

import "errors"

var (
	// ErrUnavailable indicates the backend is unreachable.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrProtocol indicates the backend replied with a body of the wrong shape.
	ErrProtocol = errors.New("unexpected backend response")

	// ErrRejected indicates the backend refused the request (4xx).
	ErrRejected = errors.New("backend rejected request")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("backend retry attempts exhausted")
)
